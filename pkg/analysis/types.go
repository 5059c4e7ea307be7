// Package analysis derives structural collusion signals from a built
// interaction graph: repeated vendor-official pairs, hub officials, vendor
// clusters, directed flow cycles, centrality scores, and per-transaction
// anomaly scores.
package analysis

// Default thresholds for the structural analyses
const (
	DefaultPairThreshold      = 5
	DefaultHubDegreeThreshold = 10
	DefaultSharedOfficials    = 2
	DefaultMinClusterSize     = 3
	DefaultMinCycleLength     = 3
)

// Per-signal risk factors
const (
	pairRiskPerInteraction = 10
	hubRiskPerVendor       = 5
	clusterRiskPerVendor   = 15
	cycleRiskPerHop        = 20
)

// Aggregation weights for per-transaction scoring
const (
	repeatedPairWeight  = 40
	hubOfficialWeight   = 30
	clusterVendorWeight = 35
)

// clipRisk bounds an integer risk score to [0, 100]
func clipRisk(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// RepeatedPair is one vendor-official pair with enough interactions to flag
type RepeatedPair struct {
	VendorID         string  `json:"vendor_id"`
	OfficialID       string  `json:"official_id"`
	InteractionCount int     `json:"interaction_count"`
	TotalAmount      float64 `json:"total_amount"`
	AvgTransaction   float64 `json:"avg_transaction"`
	RiskScore        int     `json:"risk_score"`
}

// HubOfficial is an official connected to unusually many vendors
type HubOfficial struct {
	OfficialID          string  `json:"official_id"`
	VendorConnections   int     `json:"vendor_connections"`
	TotalAmountApproved float64 `json:"total_amount_approved"`
	RiskScore           int     `json:"risk_score"`
}

// Cluster is a group of vendors linked through shared officials
type Cluster struct {
	ClusterID       string   `json:"cluster_id"`
	Vendors         []string `json:"vendors"`
	VendorCount     int      `json:"vendor_count"`
	SharedOfficials []string `json:"shared_officials"`
	OfficialCount   int      `json:"official_count"`
	TotalAmount     float64  `json:"total_amount"`
	RiskScore       int      `json:"risk_score"`
}

// Cycle is a closed payment loop in the directed flow graph
type Cycle struct {
	CyclePath   string  `json:"cycle_path"`
	CycleLength int     `json:"cycle_length"`
	TotalFlow   float64 `json:"total_flow"`
	RiskScore   int     `json:"risk_score"`
}

// CentralityRecord carries the centrality measures for one node
type CentralityRecord struct {
	NodeID              string  `json:"node_id"`
	NodeType            string  `json:"node_type"`
	Betweenness         float64 `json:"betweenness"`
	DegreeCentrality    float64 `json:"degree_centrality"`
	PageRank            float64 `json:"pagerank"`
	CentralityRiskScore float64 `json:"centrality_risk_score"`
}

// TransactionScore is the aggregated anomaly row for one ledger transaction
type TransactionScore struct {
	TransactionID       string  `json:"transaction_id"`
	VendorID            string  `json:"vendor_id"`
	OfficialID          string  `json:"official_id"`
	Amount              float64 `json:"amount"`
	NetworkAnomalyScore int     `json:"network_anomaly_score"`
	IsRepeatedPair      bool    `json:"is_repeated_pair"`
	IsHubOfficial       bool    `json:"is_hub_official"`
	IsClusterVendor     bool    `json:"is_cluster_vendor"`
}

// ClusterOptions configures vendor cluster detection
type ClusterOptions struct {
	// SharedOfficials is the minimum number of officials two vendors must
	// share to be linked in the derived vendor graph
	SharedOfficials int
	// MinClusterSize is the smallest component worth reporting
	MinClusterSize int
}

// DefaultClusterOptions returns the standard cluster detection thresholds
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{
		SharedOfficials: DefaultSharedOfficials,
		MinClusterSize:  DefaultMinClusterSize,
	}
}

// CycleOptions configures flow cycle detection
type CycleOptions struct {
	// MinCycleLength is the minimum number of nodes in a reported cycle
	MinCycleLength int
}

// DefaultCycleOptions returns the standard cycle detection thresholds
func DefaultCycleOptions() CycleOptions {
	return CycleOptions{MinCycleLength: DefaultMinCycleLength}
}

// PageRankOptions configures the PageRank power iteration
type PageRankOptions struct {
	DampingFactor float64
	MaxIterations int
	Tolerance     float64
}

// DefaultPageRankOptions returns the standard PageRank configuration
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// Options bundles the thresholds of every analysis for one run
type Options struct {
	PairThreshold      int
	HubDegreeThreshold int
	Clusters           ClusterOptions
	Cycles             CycleOptions
	PageRank           PageRankOptions
	// Workers bounds the analysis fork-join pool; 0 means GOMAXPROCS
	Workers int
}

// DefaultOptions returns the standard thresholds for all analyses
func DefaultOptions() Options {
	return Options{
		PairThreshold:      DefaultPairThreshold,
		HubDegreeThreshold: DefaultHubDegreeThreshold,
		Clusters:           DefaultClusterOptions(),
		Cycles:             DefaultCycleOptions(),
		PageRank:           DefaultPageRankOptions(),
	}
}
