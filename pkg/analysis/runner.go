package analysis

import (
	"errors"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/janusai/graftnet/pkg/graph"
	"github.com/janusai/graftnet/pkg/ledger"
	"github.com/janusai/graftnet/pkg/logging"
	"github.com/janusai/graftnet/pkg/metrics"
	"github.com/janusai/graftnet/pkg/parallel"
)

// Analysis names used as log fields, metric labels, and output table names
const (
	NamePairs      = "repeated_pairs"
	NameHubs       = "hub_officials"
	NameClusters   = "vendor_clusters"
	NameCycles     = "cycles"
	NameCentrality = "centrality_scores"
	NameAnomalies  = "network_anomalies"
)

// Timings records wall-clock duration per pipeline phase
type Timings struct {
	Pairs      time.Duration
	Hubs       time.Duration
	Clusters   time.Duration
	Cycles     time.Duration
	Centrality time.Duration
	Aggregate  time.Duration
	Total      time.Duration
}

// Result bundles the six output tables of one analysis run
type Result struct {
	RunID        string
	Pairs        []RepeatedPair
	Hubs         []HubOfficial
	Clusters     []Cluster
	Cycles       []Cycle
	Centrality   []CentralityRecord
	Transactions []TransactionScore
	Timings      Timings
}

// Runner executes the full analysis suite over a built graph. The five
// structural analyses are independent and read-only, so they run fork-join
// on a bounded worker pool; aggregation needs three of their outputs and
// runs after the join. Each analysis orders its own rows, so the tables
// come out identical regardless of worker scheduling.
type Runner struct {
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewRunner creates a runner. A nil logger or registry falls back to the
// package defaults.
func NewRunner(opts Options, logger logging.Logger, reg *metrics.Registry) *Runner {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Runner{opts: opts, logger: logger, metrics: reg}
}

// Run analyzes one graph snapshot and scores the transactions it was built
// from. The returned tables are never nil.
func (r *Runner) Run(g *graph.Graph, txns []ledger.Transaction) (*Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With(logging.RunID(runID))

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := parallel.NewWorkerPool(workers)
	if err != nil {
		r.metrics.RecordRun("error", 0)
		return nil, err
	}
	defer pool.Close()

	logger.Info("analysis run starting",
		logging.Int("workers", workers),
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.Rows(len(txns)))

	res := &Result{RunID: runID}
	start := time.Now()

	// run wraps one analysis task with timing, metrics, and a completion log
	run := func(name string, elapsed *time.Duration, task func() int) func() {
		return func() {
			began := time.Now()
			signals := task()
			*elapsed = time.Since(began)
			r.metrics.RecordAnalysis(name, signals, *elapsed)
			logger.Info("analysis complete",
				logging.Analysis(name),
				logging.Count(signals),
				logging.Latency(*elapsed))
		}
	}

	ok := pool.RunAll(
		run(NamePairs, &res.Timings.Pairs, func() int {
			res.Pairs = RepeatedPairs(g, r.opts.PairThreshold)
			return len(res.Pairs)
		}),
		run(NameHubs, &res.Timings.Hubs, func() int {
			res.Hubs = HubOfficials(g, r.opts.HubDegreeThreshold)
			return len(res.Hubs)
		}),
		run(NameClusters, &res.Timings.Clusters, func() int {
			res.Clusters = VendorClusters(g, r.opts.Clusters)
			return len(res.Clusters)
		}),
		run(NameCycles, &res.Timings.Cycles, func() int {
			res.Cycles = FlowCycles(txns, r.opts.Cycles)
			return len(res.Cycles)
		}),
		run(NameCentrality, &res.Timings.Centrality, func() int {
			res.Centrality = CentralityScores(g, r.opts.PageRank)
			return len(res.Centrality)
		}),
	)
	if !ok {
		r.metrics.RecordRun("error", time.Since(start))
		return nil, errors.New("analysis pool closed before tasks ran")
	}

	// Aggregation joins three of the tables above, so it waits for them.
	// Each row is an independent lookup; chunks write disjoint index ranges.
	aggStart := time.Now()
	scorer := newScorer(res.Pairs, res.Hubs, res.Clusters)
	rows := make([]TransactionScore, len(txns))
	pool.ForEachChunk(len(txns), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			rows[i] = scorer.score(&txns[i])
		}
	})
	res.Transactions = rows
	res.Timings.Aggregate = time.Since(aggStart)

	flagged := 0
	for i := range rows {
		if rows[i].NetworkAnomalyScore > 0 {
			flagged++
		}
	}
	r.metrics.RecordAnalysis(NameAnomalies, flagged, res.Timings.Aggregate)
	logger.Info("analysis complete",
		logging.Analysis(NameAnomalies),
		logging.Count(flagged),
		logging.Latency(res.Timings.Aggregate))

	res.Timings.Total = time.Since(start)
	r.metrics.RecordRun("success", res.Timings.Total)
	logger.Info("analysis run complete",
		logging.Rows(len(rows)),
		logging.Latency(res.Timings.Total))

	return res, nil
}
