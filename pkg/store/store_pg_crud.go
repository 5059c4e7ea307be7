package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/janusai/graftnet/pkg/analysis"
	"github.com/janusai/graftnet/pkg/graph"
	"github.com/janusai/graftnet/pkg/logging"
)

// RunRecord is one persisted pipeline run
type RunRecord struct {
	RunID        string
	CreatedAt    time.Time
	Vendors      int
	Officials    int
	Edges        int
	Transactions int
	TotalAmount  float64
}

// SaveResult persists the run row and all six result tables, keyed by the
// run id.
func (s *PGStore) SaveResult(ctx context.Context, res *analysis.Result, stats graph.Stats) error {
	if err := s.saveRun(ctx, res, stats); err != nil {
		return err
	}
	if err := s.savePairs(ctx, res.RunID, res.Pairs); err != nil {
		return err
	}
	if err := s.saveHubs(ctx, res.RunID, res.Hubs); err != nil {
		return err
	}
	if err := s.saveClusters(ctx, res.RunID, res.Clusters); err != nil {
		return err
	}
	if err := s.saveCycles(ctx, res.RunID, res.Cycles); err != nil {
		return err
	}
	if err := s.saveCentrality(ctx, res.RunID, res.Centrality); err != nil {
		return err
	}
	if err := s.saveTransactions(ctx, res.RunID, res.Transactions); err != nil {
		return err
	}

	s.logger.Info("run persisted",
		logging.Component("store"),
		logging.RunID(res.RunID),
		logging.Rows(len(res.Transactions)))
	return nil
}

func (s *PGStore) saveRun(ctx context.Context, res *analysis.Result, stats graph.Stats) error {
	query := `
		INSERT INTO analysis_runs (run_id, created_at, vendors, officials, edges, transactions, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		res.RunID,
		time.Now().UTC(),
		stats.Vendors,
		stats.Officials,
		stats.Edges,
		stats.Transactions,
		stats.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (s *PGStore) savePairs(ctx context.Context, runID string, rows []analysis.RepeatedPair) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO repeated_pairs (run_id, vendor_id, official_id, interaction_count, total_amount, avg_transaction, risk_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, runID, row.VendorID, row.OfficialID,
			row.InteractionCount, row.TotalAmount, row.AvgTransaction, row.RiskScore)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		s.metrics.RecordStoreWrite(analysis.NamePairs, "error")
		return fmt.Errorf("failed to insert repeated pairs: %w", err)
	}
	s.metrics.RecordStoreWrite(analysis.NamePairs, "success")
	return nil
}

func (s *PGStore) saveHubs(ctx context.Context, runID string, rows []analysis.HubOfficial) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO hub_officials (run_id, official_id, vendor_connections, total_amount_approved, risk_score)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, runID, row.OfficialID,
			row.VendorConnections, row.TotalAmountApproved, row.RiskScore)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		s.metrics.RecordStoreWrite(analysis.NameHubs, "error")
		return fmt.Errorf("failed to insert hub officials: %w", err)
	}
	s.metrics.RecordStoreWrite(analysis.NameHubs, "success")
	return nil
}

func (s *PGStore) saveClusters(ctx context.Context, runID string, rows []analysis.Cluster) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO vendor_clusters (run_id, cluster_id, vendors, vendor_count, shared_officials, official_count, total_amount, risk_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		vendorsJSON, err := json.Marshal(row.Vendors)
		if err != nil {
			return fmt.Errorf("failed to marshal cluster vendors: %w", err)
		}
		officialsJSON, err := json.Marshal(row.SharedOfficials)
		if err != nil {
			return fmt.Errorf("failed to marshal shared officials: %w", err)
		}
		batch.Queue(query, runID, row.ClusterID, vendorsJSON, row.VendorCount,
			officialsJSON, row.OfficialCount, row.TotalAmount, row.RiskScore)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		s.metrics.RecordStoreWrite(analysis.NameClusters, "error")
		return fmt.Errorf("failed to insert vendor clusters: %w", err)
	}
	s.metrics.RecordStoreWrite(analysis.NameClusters, "success")
	return nil
}

func (s *PGStore) saveCycles(ctx context.Context, runID string, rows []analysis.Cycle) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO cycles (run_id, cycle_path, cycle_length, total_flow, risk_score)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, runID, row.CyclePath, row.CycleLength, row.TotalFlow, row.RiskScore)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		s.metrics.RecordStoreWrite(analysis.NameCycles, "error")
		return fmt.Errorf("failed to insert cycles: %w", err)
	}
	s.metrics.RecordStoreWrite(analysis.NameCycles, "success")
	return nil
}

func (s *PGStore) saveCentrality(ctx context.Context, runID string, rows []analysis.CentralityRecord) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO centrality_scores (run_id, node_id, node_type, betweenness, degree_centrality, pagerank, centrality_risk_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, runID, row.NodeID, row.NodeType,
			row.Betweenness, row.DegreeCentrality, row.PageRank, row.CentralityRiskScore)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		s.metrics.RecordStoreWrite(analysis.NameCentrality, "error")
		return fmt.Errorf("failed to insert centrality scores: %w", err)
	}
	s.metrics.RecordStoreWrite(analysis.NameCentrality, "success")
	return nil
}

func (s *PGStore) saveTransactions(ctx context.Context, runID string, rows []analysis.TransactionScore) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO network_anomalies (run_id, transaction_id, vendor_id, official_id, amount, network_anomaly_score, is_repeated_pair, is_hub_official, is_cluster_vendor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, runID, row.TransactionID, row.VendorID, row.OfficialID,
			row.Amount, row.NetworkAnomalyScore,
			row.IsRepeatedPair, row.IsHubOfficial, row.IsClusterVendor)
	}

	if err := s.sendBatch(ctx, batch); err != nil {
		s.metrics.RecordStoreWrite(analysis.NameAnomalies, "error")
		return fmt.Errorf("failed to insert network anomalies: %w", err)
	}
	s.metrics.RecordStoreWrite(analysis.NameAnomalies, "success")
	return nil
}

// sendBatch sends a queued batch and surfaces the first failed statement
func (s *PGStore) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListRuns returns all persisted runs, newest first
func (s *PGStore) ListRuns(ctx context.Context) ([]*RunRecord, error) {
	query := `
		SELECT run_id, created_at, vendors, officials, edges, transactions, total_amount
		FROM analysis_runs
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		run := &RunRecord{}
		err := rows.Scan(
			&run.RunID,
			&run.CreatedAt,
			&run.Vendors,
			&run.Officials,
			&run.Edges,
			&run.Transactions,
			&run.TotalAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}
