package analysis

import (
	"sort"

	"github.com/janusai/graftnet/pkg/graph"
)

// HubOfficials flags officials whose distinct vendor count meets the degree
// threshold. An official serving ten vendors scores 50; twenty or more
// saturates at 100. Rows are ordered by risk descending, then official id.
func HubOfficials(g *graph.Graph, threshold int) []HubOfficial {
	if threshold <= 0 {
		threshold = DefaultHubDegreeThreshold
	}

	rows := make([]HubOfficial, 0)
	for _, ref := range g.Officials() {
		degree := g.Degree(ref)
		if degree < threshold {
			continue
		}

		rows = append(rows, HubOfficial{
			OfficialID:          g.Node(ref).ID,
			VendorConnections:   degree,
			TotalAmountApproved: g.IncidentAmount(ref),
			RiskScore:           clipRisk(degree * hubRiskPerVendor),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RiskScore != rows[j].RiskScore {
			return rows[i].RiskScore > rows[j].RiskScore
		}
		return rows[i].OfficialID < rows[j].OfficialID
	})

	return rows
}
