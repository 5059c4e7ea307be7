package graph

import (
	"errors"

	"github.com/janusai/graftnet/pkg/ledger"
)

// ErrBuilderConsumed is returned by builder methods after Build has run
var ErrBuilderConsumed = errors.New("builder already consumed by Build")

type pairKey struct {
	vendor   NodeRef
	official NodeRef
}

// Builder assembles an interaction graph from a vendor registry and a
// stream of transactions. Ingest is single-threaded; the builder is not
// safe for concurrent use.
type Builder struct {
	nodes       []Node
	adj         [][]EdgeRef
	edges       []Edge
	vendorIdx   map[string]NodeRef
	officialIdx map[string]NodeRef
	pairIdx     map[pairKey]EdgeRef

	txns        int
	totalAmount float64
	rejected    int
	consumed    bool
}

// NewBuilder creates an empty graph builder
func NewBuilder() *Builder {
	return &Builder{
		nodes:       make([]Node, 0),
		adj:         make([][]EdgeRef, 0),
		edges:       make([]Edge, 0),
		vendorIdx:   make(map[string]NodeRef),
		officialIdx: make(map[string]NodeRef),
		pairIdx:     make(map[pairKey]EdgeRef),
	}
}

// AddVendors seeds vendor nodes from the registry. A duplicate id updates
// the stored name and fraud flag (last write wins).
func (b *Builder) AddVendors(registry []ledger.Vendor) error {
	if b.consumed {
		return ErrBuilderConsumed
	}

	for i := range registry {
		v := &registry[i]
		if ref, ok := b.vendorIdx[v.ID]; ok {
			b.nodes[ref].Name = v.Name
			b.nodes[ref].Fraud = v.Fraud
			continue
		}
		b.addNode(Node{ID: v.ID, Kind: KindVendor, Name: v.Name, Fraud: v.Fraud})
	}

	return nil
}

// Ingest validates one transaction and folds it into the graph. A rejected
// transaction is counted and returned as a *ledger.ValidationError; the
// graph is unchanged.
func (b *Builder) Ingest(txn ledger.Transaction) error {
	if b.consumed {
		return ErrBuilderConsumed
	}

	if err := ledger.CheckTransaction(&txn); err != nil {
		b.rejected++
		return err
	}

	vendor, ok := b.vendorIdx[txn.VendorID]
	if !ok {
		// Unregistered vendor: tolerate registry drift with a minimal node
		vendor = b.addNode(Node{ID: txn.VendorID, Kind: KindVendor})
	}

	official, ok := b.officialIdx[txn.OfficialID]
	if !ok {
		official = b.addNode(Node{ID: txn.OfficialID, Kind: KindOfficial})
	}

	key := pairKey{vendor: vendor, official: official}
	if ref, ok := b.pairIdx[key]; ok {
		e := &b.edges[ref]
		e.Weight++
		e.Total += txn.Amount
		e.Txns = append(e.Txns, txn.ID)
	} else {
		ref := EdgeRef(len(b.edges))
		b.edges = append(b.edges, Edge{
			Vendor:   vendor,
			Official: official,
			Weight:   1,
			Total:    txn.Amount,
			Txns:     []string{txn.ID},
		})
		b.pairIdx[key] = ref
		b.adj[vendor] = append(b.adj[vendor], ref)
		b.adj[official] = append(b.adj[official], ref)
	}

	b.txns++
	b.totalAmount += txn.Amount
	return nil
}

// IngestAll ingests a batch, skipping rejected rows. Returns the number of
// accepted transactions; Rejected reports the rest.
func (b *Builder) IngestAll(txns []ledger.Transaction) int {
	accepted := 0
	for i := range txns {
		if err := b.Ingest(txns[i]); err == nil {
			accepted++
		}
	}
	return accepted
}

// Rejected returns the number of transactions rejected so far
func (b *Builder) Rejected() int {
	return b.rejected
}

// Build freezes the assembled graph and consumes the builder. Any later
// builder call fails with ErrBuilderConsumed.
func (b *Builder) Build() (*Graph, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	b.consumed = true

	vendors := make([]NodeRef, 0, len(b.vendorIdx))
	officials := make([]NodeRef, 0, len(b.officialIdx))
	for i := range b.nodes {
		switch b.nodes[i].Kind {
		case KindVendor:
			vendors = append(vendors, NodeRef(i))
		case KindOfficial:
			officials = append(officials, NodeRef(i))
		}
	}

	return &Graph{
		nodes:       b.nodes,
		adj:         b.adj,
		edges:       b.edges,
		vendorIdx:   b.vendorIdx,
		officialIdx: b.officialIdx,
		pairIdx:     b.pairIdx,
		vendors:     vendors,
		officials:   officials,
		txns:        b.txns,
		totalAmount: b.totalAmount,
	}, nil
}

func (b *Builder) addNode(n Node) NodeRef {
	ref := NodeRef(len(b.nodes))
	b.nodes = append(b.nodes, n)
	b.adj = append(b.adj, nil)
	switch n.Kind {
	case KindVendor:
		b.vendorIdx[n.ID] = ref
	case KindOfficial:
		b.officialIdx[n.ID] = ref
	}
	return ref
}
