package analysis

import (
	"container/list"
	"fmt"
	"sort"

	"github.com/janusai/graftnet/pkg/graph"
)

// VendorClusters finds groups of vendors connected through shared officials.
// Two vendors are linked in the derived vendor graph when they share at
// least opts.SharedOfficials officials; connected components of at least
// opts.MinClusterSize vendors are reported. Cluster ids are assigned after
// sorting, so CLUSTER_1 is always the highest-risk group.
func VendorClusters(g *graph.Graph, opts ClusterOptions) []Cluster {
	if opts.SharedOfficials <= 0 {
		opts.SharedOfficials = DefaultSharedOfficials
	}
	if opts.MinClusterSize <= 0 {
		opts.MinClusterSize = DefaultMinClusterSize
	}

	// Count shared officials per vendor pair by grouping the vendors under
	// each official. This costs sum(k^2) over official degrees k instead of
	// comparing every vendor against every other.
	type vendorPair struct {
		a, b graph.NodeRef // a < b
	}
	shared := make(map[vendorPair]int)
	for _, official := range g.Officials() {
		incident := g.Incident(official)
		for i := 0; i < len(incident); i++ {
			vi := g.Edge(incident[i]).Vendor
			for j := i + 1; j < len(incident); j++ {
				vj := g.Edge(incident[j]).Vendor
				a, b := vi, vj
				if b < a {
					a, b = b, a
				}
				shared[vendorPair{a, b}]++
			}
		}
	}

	// Adjacency restricted to qualifying pairs. Vendors with no qualifying
	// link never enter the derived graph.
	adjacency := make(map[graph.NodeRef][]graph.NodeRef)
	for pair, count := range shared {
		if count < opts.SharedOfficials {
			continue
		}
		adjacency[pair.a] = append(adjacency[pair.a], pair.b)
		adjacency[pair.b] = append(adjacency[pair.b], pair.a)
	}

	// BFS over the derived graph, vendors in insertion order
	visited := make(map[graph.NodeRef]bool)
	clusters := make([]Cluster, 0)
	for _, start := range g.Vendors() {
		if visited[start] || len(adjacency[start]) == 0 {
			continue
		}

		component := make([]graph.NodeRef, 0)
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			ref, ok := queue.Remove(queue.Front()).(graph.NodeRef)
			if !ok {
				continue
			}
			component = append(component, ref)

			for _, next := range adjacency[ref] {
				if !visited[next] {
					visited[next] = true
					queue.PushBack(next)
				}
			}
		}

		if len(component) < opts.MinClusterSize {
			continue
		}
		clusters = append(clusters, summarizeCluster(g, component))
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].RiskScore != clusters[j].RiskScore {
			return clusters[i].RiskScore > clusters[j].RiskScore
		}
		return clusters[i].Vendors[0] < clusters[j].Vendors[0]
	})

	for i := range clusters {
		clusters[i].ClusterID = fmt.Sprintf("CLUSTER_%d", i+1)
	}

	return clusters
}

// summarizeCluster rolls one component up into a reportable cluster
func summarizeCluster(g *graph.Graph, component []graph.NodeRef) Cluster {
	vendors := make([]string, 0, len(component))
	officialSet := make(map[string]bool)
	var total float64

	for _, ref := range component {
		vendors = append(vendors, g.Node(ref).ID)
		total += g.IncidentAmount(ref)
		for _, eref := range g.Incident(ref) {
			official := g.Edge(eref).Official
			officialSet[g.Node(official).ID] = true
		}
	}
	sort.Strings(vendors)

	officials := make([]string, 0, len(officialSet))
	for id := range officialSet {
		officials = append(officials, id)
	}
	sort.Strings(officials)

	return Cluster{
		Vendors:         vendors,
		VendorCount:     len(vendors),
		SharedOfficials: officials,
		OfficialCount:   len(officials),
		TotalAmount:     total,
		RiskScore:       clipRisk(len(vendors) * clusterRiskPerVendor),
	}
}
