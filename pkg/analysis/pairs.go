package analysis

import (
	"sort"

	"github.com/janusai/graftnet/pkg/graph"
)

// RepeatedPairs flags vendor-official pairs whose interaction count meets
// the threshold. A pair seen five times scores 50; twenty or more saturates
// at 100. Rows are ordered by risk descending, then vendor id, official id.
func RepeatedPairs(g *graph.Graph, threshold int) []RepeatedPair {
	if threshold <= 0 {
		threshold = DefaultPairThreshold
	}

	rows := make([]RepeatedPair, 0)
	for ref := 0; ref < g.EdgeCount(); ref++ {
		edge := g.Edge(graph.EdgeRef(ref))
		if edge.Weight < threshold {
			continue
		}

		rows = append(rows, RepeatedPair{
			VendorID:         g.Node(edge.Vendor).ID,
			OfficialID:       g.Node(edge.Official).ID,
			InteractionCount: edge.Weight,
			TotalAmount:      edge.Total,
			AvgTransaction:   edge.Total / float64(edge.Weight),
			RiskScore:        clipRisk(edge.Weight * pairRiskPerInteraction),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RiskScore != rows[j].RiskScore {
			return rows[i].RiskScore > rows[j].RiskScore
		}
		if rows[i].VendorID != rows[j].VendorID {
			return rows[i].VendorID < rows[j].VendorID
		}
		return rows[i].OfficialID < rows[j].OfficialID
	})

	return rows
}
