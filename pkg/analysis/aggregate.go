package analysis

import (
	"sort"

	"github.com/janusai/graftnet/pkg/ledger"
)

// scorer holds the membership sets one aggregation pass checks against.
// Scoring a row is a pure lookup, so rows may be scored concurrently.
type scorer struct {
	pairSet    map[string]bool
	hubSet     map[string]bool
	clusterSet map[string]bool
}

func newScorer(pairs []RepeatedPair, hubs []HubOfficial, clusters []Cluster) *scorer {
	s := &scorer{
		pairSet:    make(map[string]bool, len(pairs)),
		hubSet:     make(map[string]bool, len(hubs)),
		clusterSet: make(map[string]bool),
	}
	for i := range pairs {
		s.pairSet[pairs[i].VendorID+"|"+pairs[i].OfficialID] = true
	}
	for i := range hubs {
		s.hubSet[hubs[i].OfficialID] = true
	}
	for i := range clusters {
		for _, vendor := range clusters[i].Vendors {
			s.clusterSet[vendor] = true
		}
	}
	return s
}

func (s *scorer) score(txn *ledger.Transaction) TransactionScore {
	row := TransactionScore{
		TransactionID: txn.ID,
		VendorID:      txn.VendorID,
		OfficialID:    txn.OfficialID,
		Amount:        txn.Amount,
	}

	score := 0
	if s.pairSet[txn.VendorID+"|"+txn.OfficialID] {
		score += repeatedPairWeight
		row.IsRepeatedPair = true
	}
	if s.hubSet[txn.OfficialID] {
		score += hubOfficialWeight
		row.IsHubOfficial = true
	}
	if s.clusterSet[txn.VendorID] {
		score += clusterVendorWeight
		row.IsClusterVendor = true
	}
	row.NetworkAnomalyScore = clipRisk(score)

	return row
}

// TransactionScores scores every ledger transaction with the structural
// signals it participates in: +40 for a repeated pair, +30 for a hub
// official, +35 for a clustered vendor, clipped to [0, 100]. The output
// keeps the ledger's row order; membership checks run against hash sets so
// the pass stays linear.
func TransactionScores(txns []ledger.Transaction, pairs []RepeatedPair, hubs []HubOfficial, clusters []Cluster) []TransactionScore {
	s := newScorer(pairs, hubs, clusters)

	rows := make([]TransactionScore, len(txns))
	for i := range txns {
		rows[i] = s.score(&txns[i])
	}
	return rows
}

// TopAnomalies returns the n highest-scoring transactions, ties keeping
// ledger order. The input slice is not modified.
func TopAnomalies(rows []TransactionScore, n int) []TransactionScore {
	if n <= 0 {
		return make([]TransactionScore, 0)
	}

	ranked := make([]TransactionScore, len(rows))
	copy(ranked, rows)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NetworkAnomalyScore > ranked[j].NetworkAnomalyScore
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
