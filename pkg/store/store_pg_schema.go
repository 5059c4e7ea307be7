package store

import "context"

// migrate creates the necessary database tables
func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		run_id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		vendors INTEGER NOT NULL,
		officials INTEGER NOT NULL,
		edges INTEGER NOT NULL,
		transactions INTEGER NOT NULL,
		total_amount DOUBLE PRECISION NOT NULL
	);

	CREATE TABLE IF NOT EXISTS repeated_pairs (
		run_id TEXT NOT NULL REFERENCES analysis_runs(run_id),
		vendor_id TEXT NOT NULL,
		official_id TEXT NOT NULL,
		interaction_count INTEGER NOT NULL,
		total_amount DOUBLE PRECISION NOT NULL,
		avg_transaction DOUBLE PRECISION NOT NULL,
		risk_score INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS hub_officials (
		run_id TEXT NOT NULL REFERENCES analysis_runs(run_id),
		official_id TEXT NOT NULL,
		vendor_connections INTEGER NOT NULL,
		total_amount_approved DOUBLE PRECISION NOT NULL,
		risk_score INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS vendor_clusters (
		run_id TEXT NOT NULL REFERENCES analysis_runs(run_id),
		cluster_id TEXT NOT NULL,
		vendors JSONB NOT NULL,
		vendor_count INTEGER NOT NULL,
		shared_officials JSONB NOT NULL,
		official_count INTEGER NOT NULL,
		total_amount DOUBLE PRECISION NOT NULL,
		risk_score INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cycles (
		run_id TEXT NOT NULL REFERENCES analysis_runs(run_id),
		cycle_path TEXT NOT NULL,
		cycle_length INTEGER NOT NULL,
		total_flow DOUBLE PRECISION NOT NULL,
		risk_score INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS centrality_scores (
		run_id TEXT NOT NULL REFERENCES analysis_runs(run_id),
		node_id TEXT NOT NULL,
		node_type TEXT NOT NULL,
		betweenness DOUBLE PRECISION NOT NULL,
		degree_centrality DOUBLE PRECISION NOT NULL,
		pagerank DOUBLE PRECISION NOT NULL,
		centrality_risk_score DOUBLE PRECISION NOT NULL
	);

	CREATE TABLE IF NOT EXISTS network_anomalies (
		run_id TEXT NOT NULL REFERENCES analysis_runs(run_id),
		transaction_id TEXT NOT NULL,
		vendor_id TEXT NOT NULL,
		official_id TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		network_anomaly_score INTEGER NOT NULL,
		is_repeated_pair BOOLEAN NOT NULL,
		is_hub_official BOOLEAN NOT NULL,
		is_cluster_vendor BOOLEAN NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_repeated_pairs_run ON repeated_pairs(run_id);
	CREATE INDEX IF NOT EXISTS idx_hub_officials_run ON hub_officials(run_id);
	CREATE INDEX IF NOT EXISTS idx_vendor_clusters_run ON vendor_clusters(run_id);
	CREATE INDEX IF NOT EXISTS idx_cycles_run ON cycles(run_id);
	CREATE INDEX IF NOT EXISTS idx_centrality_scores_run ON centrality_scores(run_id);
	CREATE INDEX IF NOT EXISTS idx_network_anomalies_run ON network_anomalies(run_id);
	CREATE INDEX IF NOT EXISTS idx_network_anomalies_score ON network_anomalies(network_anomaly_score);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}
