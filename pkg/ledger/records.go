// Package ledger defines the procurement ledger input records and their
// CSV loaders. A ledger is a vendor registry plus a flat list of
// transactions, each linking one vendor to the official who approved it.
package ledger

import "time"

// Vendor is one row of the vendor registry.
type Vendor struct {
	ID    string `validate:"required"`
	Name  string
	Fraud bool // registry fraud-history flag, carried through to outputs
}

// Transaction is one ledger row: a payment to a vendor approved by an official.
type Transaction struct {
	ID         string `validate:"required"`
	VendorID   string `validate:"required"`
	OfficialID string `validate:"required"`
	Amount     float64
	Date       time.Time
}

// Ledger is the loaded input snapshot the graph is built from.
type Ledger struct {
	Vendors      []Vendor
	Transactions []Transaction
	// Rejected counts rows dropped during loading or validation.
	Rejected int
}

// TotalAmount sums the amounts of all loaded transactions.
func (l *Ledger) TotalAmount() float64 {
	var total float64
	for i := range l.Transactions {
		total += l.Transactions[i].Amount
	}
	return total
}
