package analysis

import (
	"fmt"
	"math"
	"testing"

	"github.com/janusai/graftnet/pkg/graph"
	"github.com/janusai/graftnet/pkg/ledger"
)

// txn builds one valid transaction for graph fixtures
func txn(id, vendorID, officialID string, amount float64) ledger.Transaction {
	return ledger.Transaction{ID: id, VendorID: vendorID, OfficialID: officialID, Amount: amount}
}

// interactions emits n transactions between one vendor and one official
func interactions(vendorID, officialID string, n int, amount float64) []ledger.Transaction {
	txns := make([]ledger.Transaction, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-%s-%d", vendorID, officialID, i)
		txns = append(txns, txn(id, vendorID, officialID, amount))
	}
	return txns
}

// fanIn emits one transaction from each of n distinct vendors to one official
func fanIn(officialID, vendorPrefix string, n int, amount float64) []ledger.Transaction {
	txns := make([]ledger.Transaction, 0, n)
	for i := 0; i < n; i++ {
		vendorID := fmt.Sprintf("%s%d", vendorPrefix, i+1)
		id := fmt.Sprintf("%s-%s", vendorID, officialID)
		txns = append(txns, txn(id, vendorID, officialID, amount))
	}
	return txns
}

// crossPairs emits one transaction for every vendor-official combination, so
// every vendor pair shares all the officials
func crossPairs(vendors, officials []string, amount float64) []ledger.Transaction {
	txns := make([]ledger.Transaction, 0, len(vendors)*len(officials))
	for _, v := range vendors {
		for _, o := range officials {
			txns = append(txns, txn(v+"-"+o, v, o, amount))
		}
	}
	return txns
}

// buildGraph ingests the transactions and returns the built graph
func buildGraph(t *testing.T, txns []ledger.Transaction) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder()
	for i := range txns {
		if err := b.Ingest(txns[i]); err != nil {
			t.Fatalf("Ingest(%s) failed: %v", txns[i].ID, err)
		}
	}

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
