// Package graph holds the weighted bipartite interaction graph built from a
// procurement ledger. Nodes live in a flat arena addressed by NodeRef
// handles; each edge accumulates every transaction between one vendor and
// one official. A Builder is consumed once and hands off an immutable Graph
// that analyses read concurrently.
package graph

// NodeKind distinguishes the two sides of the bipartite graph
type NodeKind uint8

const (
	KindVendor NodeKind = iota
	KindOfficial
)

// String returns the string representation of a node kind
func (k NodeKind) String() string {
	switch k {
	case KindVendor:
		return "vendor"
	case KindOfficial:
		return "official"
	default:
		return "unknown"
	}
}

// NodeRef is a handle into the node arena
type NodeRef uint32

// EdgeRef is a handle into the edge arena
type EdgeRef uint32

// Node is one participant in the interaction graph
type Node struct {
	ID    string
	Kind  NodeKind
	Name  string // registry display name, vendors only
	Fraud bool   // registry fraud-history flag, vendors only
}

// Edge accumulates all transactions between one vendor and one official
type Edge struct {
	Vendor   NodeRef
	Official NodeRef
	Weight   int      // interaction count
	Total    float64  // summed transaction amount
	Txns     []string // contributing transaction ids, ingest order
}

// Stats summarizes a built graph
type Stats struct {
	Vendors      int
	Officials    int
	Edges        int
	Transactions int
	TotalAmount  float64
}
