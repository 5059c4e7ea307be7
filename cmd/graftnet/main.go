package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/janusai/graftnet/pkg/analysis"
	"github.com/janusai/graftnet/pkg/config"
	"github.com/janusai/graftnet/pkg/export"
	"github.com/janusai/graftnet/pkg/graph"
	"github.com/janusai/graftnet/pkg/ledger"
	"github.com/janusai/graftnet/pkg/logging"
	"github.com/janusai/graftnet/pkg/metrics"
	"github.com/janusai/graftnet/pkg/store"
)

func main() {
	var (
		vendorsFile = flag.String("vendors", "", "Path to the vendor registry CSV")
		txnsFile    = flag.String("transactions", "", "Path to the transaction ledger CSV")
		configFile  = flag.String("config", "", "Path to the YAML configuration file")
		outputDir   = flag.String("output", "", "Directory for the exported CSV tables (overrides config)")
		bundle      = flag.Bool("bundle", false, "Also write the compressed signal bundle")
		workers     = flag.Int("workers", -1, "Analysis worker count, 0 means GOMAXPROCS (overrides config)")
		topN        = flag.Int("top", 0, "How many top anomalies to log (overrides config)")
		databaseURL = flag.String("database-url", "", "PostgreSQL URL for the result sink (overrides config)")
		metricsAddr = flag.String("metrics-addr", "", "Listen address for Prometheus metrics, e.g. :9090")
		logLevel    = flag.String("log-level", "", "Log level: DEBUG, INFO, WARN or ERROR (overrides config)")
	)
	flag.Parse()

	if *vendorsFile == "" || *txnsFile == "" {
		fmt.Println("Usage: graftnet --vendors vendors.csv --transactions transactions.csv [--config config.yaml]")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags override file values
	if *outputDir != "" {
		cfg.Export.Dir = *outputDir
	}
	if *bundle {
		cfg.Export.Bundle = true
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *topN > 0 {
		cfg.Export.TopN = *topN
	}
	if *databaseURL != "" {
		cfg.Database.URL = *databaseURL
	}
	if *logLevel != "" {
		cfg.LogLevel = strings.ToUpper(*logLevel)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	logging.SetDefaultLogger(logger)

	reg := metrics.DefaultRegistry()
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, reg, logger)
	}

	pipelineStart := time.Now()

	// Load the ledger
	led, err := ledger.Load(*vendorsFile, *txnsFile, logger)
	if err != nil {
		logger.Error("failed to load ledger", logging.Error(err))
		os.Exit(1)
	}
	reg.RecordVendorsLoaded(len(led.Vendors))
	reg.RecordIngest(len(led.Transactions), led.Rejected)

	// Build the interaction graph
	buildStart := time.Now()
	builder := graph.NewBuilder()
	if err := builder.AddVendors(led.Vendors); err != nil {
		logger.Error("failed to seed vendor registry", logging.Error(err))
		os.Exit(1)
	}
	accepted := builder.IngestAll(led.Transactions)
	if rejected := builder.Rejected(); rejected > 0 {
		logger.Warn("transactions rejected during graph build", logging.Count(rejected))
	}
	g, err := builder.Build()
	if err != nil {
		logger.Error("failed to build graph", logging.Error(err))
		os.Exit(1)
	}
	stats := g.Stats()
	reg.UpdateGraphStats(stats.Vendors, stats.Officials, stats.Edges, stats.TotalAmount)
	logger.Info("graph built",
		logging.Int("vendors", stats.Vendors),
		logging.Int("officials", stats.Officials),
		logging.Int("edges", stats.Edges),
		logging.Count(accepted),
		logging.Float64("total_amount", stats.TotalAmount),
		logging.Latency(time.Since(buildStart)))

	// Run the analyses
	runner := analysis.NewRunner(cfg.AnalysisOptions(), logger, reg)
	res, err := runner.Run(g, led.Transactions)
	if err != nil {
		logger.Error("analysis failed", logging.Error(err))
		os.Exit(1)
	}

	// Export the result tables
	writer := export.NewWriter(cfg.Export.Dir, logger, reg)
	if err := writer.WriteAll(res); err != nil {
		logger.Error("export failed", logging.RunID(res.RunID), logging.Error(err))
		os.Exit(1)
	}
	if cfg.Export.Bundle {
		path := filepath.Join(cfg.Export.Dir, "signals.bundle")
		if err := export.WriteBundle(path, res); err != nil {
			logger.Error("bundle export failed", logging.Path(path), logging.Error(err))
			os.Exit(1)
		}
		logger.Info("signal bundle written", logging.Path(path), logging.RunID(res.RunID))
	}

	// Persist to the optional database sink
	if cfg.Database.URL != "" {
		if err := persistResult(cfg.Database.URL, res, stats, logger, reg); err != nil {
			logger.Error("database persistence failed", logging.RunID(res.RunID), logging.Error(err))
			os.Exit(1)
		}
	}

	logTopAnomalies(logger, res, cfg.Export.TopN)

	logger.Info("pipeline complete",
		logging.RunID(res.RunID),
		logging.Int("repeated_pairs", len(res.Pairs)),
		logging.Int("hub_officials", len(res.Hubs)),
		logging.Int("vendor_clusters", len(res.Clusters)),
		logging.Int("cycles", len(res.Cycles)),
		logging.Latency(time.Since(pipelineStart)))
}

// persistResult writes the run into the PostgreSQL sink
func persistResult(databaseURL string, res *analysis.Result, stats graph.Stats, logger logging.Logger, reg *metrics.Registry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.NewPGStore(ctx, databaseURL, logger, reg)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.SaveResult(ctx, res, stats)
}

// serveMetrics exposes the Prometheus registry for long batch runs
func serveMetrics(addr string, reg *metrics.Registry, logger logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	logger.Info("metrics listening", logging.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", logging.Error(err))
	}
}

// logTopAnomalies logs the highest-scoring transactions, skipping clean rows
func logTopAnomalies(logger logging.Logger, res *analysis.Result, n int) {
	for i, row := range analysis.TopAnomalies(res.Transactions, n) {
		if row.NetworkAnomalyScore == 0 {
			break
		}
		logger.Info("top network anomaly",
			logging.Int("rank", i+1),
			logging.TxnID(row.TransactionID),
			logging.VendorID(row.VendorID),
			logging.OfficialID(row.OfficialID),
			logging.Float64("amount", row.Amount),
			logging.Int("score", row.NetworkAnomalyScore))
	}
}
