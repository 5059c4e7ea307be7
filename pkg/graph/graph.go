package graph

// Graph is the immutable interaction graph handed off by Builder.Build.
// All read methods are safe for concurrent use.
type Graph struct {
	nodes       []Node
	adj         [][]EdgeRef
	edges       []Edge
	vendorIdx   map[string]NodeRef
	officialIdx map[string]NodeRef
	pairIdx     map[pairKey]EdgeRef
	vendors     []NodeRef // insertion order
	officials   []NodeRef // insertion order
	txns        int
	totalAmount float64
}

// NodeCount returns the total number of nodes
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct vendor-official pairs
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Transactions returns the number of accepted transactions
func (g *Graph) Transactions() int { return g.txns }

// TotalAmount returns the summed amount over all accepted transactions
func (g *Graph) TotalAmount() float64 { return g.totalAmount }

// Node returns the node behind a handle
func (g *Graph) Node(ref NodeRef) Node { return g.nodes[ref] }

// Edge returns the edge behind a handle. The transaction id slice is
// shared with the arena; treat it as read-only.
func (g *Graph) Edge(ref EdgeRef) Edge { return g.edges[ref] }

// VendorRef resolves a vendor id to its handle
func (g *Graph) VendorRef(id string) (NodeRef, bool) {
	ref, ok := g.vendorIdx[id]
	return ref, ok
}

// OfficialRef resolves an official id to its handle
func (g *Graph) OfficialRef(id string) (NodeRef, bool) {
	ref, ok := g.officialIdx[id]
	return ref, ok
}

// Vendors returns vendor handles in insertion order. Read-only.
func (g *Graph) Vendors() []NodeRef { return g.vendors }

// Officials returns official handles in insertion order. Read-only.
func (g *Graph) Officials() []NodeRef { return g.officials }

// Incident returns the edges touching a node. Read-only.
func (g *Graph) Incident(ref NodeRef) []EdgeRef { return g.adj[ref] }

// Other returns the endpoint of edge e opposite to from
func (g *Graph) Other(e EdgeRef, from NodeRef) NodeRef {
	edge := &g.edges[e]
	if edge.Vendor == from {
		return edge.Official
	}
	return edge.Vendor
}

// Degree returns the number of distinct counterparties of a node. One edge
// exists per pair, so this is the incident edge count.
func (g *Graph) Degree(ref NodeRef) int { return len(g.adj[ref]) }

// IncidentAmount sums the accumulated amounts on all edges of a node
func (g *Graph) IncidentAmount(ref NodeRef) float64 {
	var total float64
	for _, e := range g.adj[ref] {
		total += g.edges[e].Total
	}
	return total
}

// PairEdge looks up the edge between a vendor and an official
func (g *Graph) PairEdge(vendor, official NodeRef) (EdgeRef, bool) {
	ref, ok := g.pairIdx[pairKey{vendor: vendor, official: official}]
	return ref, ok
}

// Stats summarizes the graph for logs and metrics
func (g *Graph) Stats() Stats {
	return Stats{
		Vendors:      len(g.vendors),
		Officials:    len(g.officials),
		Edges:        len(g.edges),
		Transactions: g.txns,
		TotalAmount:  g.totalAmount,
	}
}
