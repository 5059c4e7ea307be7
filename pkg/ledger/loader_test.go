package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/janusai/graftnet/pkg/logging"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadTransactions(t *testing.T) {
	// Columns deliberately reordered, with an extra column in the middle
	path := writeCSV(t, "transactions.csv", `vendor_id,amount,transaction_id,notes,official_id,date
VEN00001,50000.50,TXN000001,rush order,OFF0001,2024-03-15
VEN00002,1200,TXN000002,,OFF0002,2024-03-16T09:30:00Z
VEN00001,780.25,TXN000003,,OFF0001,
`)

	txns, rejected, err := LoadTransactions(path, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}
	if rejected != 0 {
		t.Errorf("rejected = %d, want 0", rejected)
	}
	if len(txns) != 3 {
		t.Fatalf("loaded %d transactions, want 3", len(txns))
	}

	first := txns[0]
	if first.ID != "TXN000001" || first.VendorID != "VEN00001" || first.OfficialID != "OFF0001" {
		t.Errorf("first row = %+v", first)
	}
	if first.Amount != 50000.50 {
		t.Errorf("first amount = %v, want 50000.50", first.Amount)
	}
	if first.Date.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("first date = %v, want 2024-03-15", first.Date)
	}

	if want := time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC); !txns[1].Date.Equal(want) {
		t.Errorf("second date = %v, want %v", txns[1].Date, want)
	}
	if !txns[2].Date.IsZero() {
		t.Errorf("third date = %v, want zero", txns[2].Date)
	}
}

func TestLoadTransactions_RejectsBadRows(t *testing.T) {
	path := writeCSV(t, "transactions.csv", `transaction_id,vendor_id,official_id,amount,date
TXN000001,VEN00001,OFF0001,100,2024-01-01
TXN000002,,OFF0001,200,2024-01-02
TXN000003,VEN00002,OFF0002,not-a-number,2024-01-03
TXN000004,VEN00002,OFF0002,300,2024-01-04
`)

	txns, rejected, err := LoadTransactions(path, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}
	if rejected != 2 {
		t.Errorf("rejected = %d, want 2", rejected)
	}
	if len(txns) != 2 {
		t.Fatalf("loaded %d transactions, want 2", len(txns))
	}

	// Input order preserved for the survivors
	if txns[0].ID != "TXN000001" || txns[1].ID != "TXN000004" {
		t.Errorf("survivors = %s, %s", txns[0].ID, txns[1].ID)
	}
}

func TestLoadTransactions_MissingColumn(t *testing.T) {
	path := writeCSV(t, "transactions.csv", `transaction_id,vendor_id,amount
TXN000001,VEN00001,100
`)

	_, _, err := LoadTransactions(path, logging.NewNopLogger())
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
}

func TestLoadTransactions_EmptyFile(t *testing.T) {
	path := writeCSV(t, "transactions.csv", `transaction_id,vendor_id,official_id,amount
`)

	txns, rejected, err := LoadTransactions(path, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}
	if rejected != 0 || len(txns) != 0 {
		t.Errorf("got %d rows, %d rejected, want 0, 0", len(txns), rejected)
	}
	if txns == nil {
		t.Error("transactions slice is nil, want empty")
	}
}

func TestLoadVendors(t *testing.T) {
	// pandas emits True/False, other producers 1/0
	path := writeCSV(t, "vendors.csv", `vendor_id,vendor_name,is_fraud
VEN00001,Acme Corp,True
VEN00002,Globex Ltd,False
VEN00003,Initech,1
VEN00004,Umbrella Inc,0
VEN00005,Stark Industries,
`)

	vendors, rejected, err := LoadVendors(path, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("LoadVendors() error = %v", err)
	}
	if rejected != 0 {
		t.Errorf("rejected = %d, want 0", rejected)
	}
	if len(vendors) != 5 {
		t.Fatalf("loaded %d vendors, want 5", len(vendors))
	}

	wantFraud := []bool{true, false, true, false, false}
	for i, v := range vendors {
		if v.Fraud != wantFraud[i] {
			t.Errorf("vendor %s Fraud = %v, want %v", v.ID, v.Fraud, wantFraud[i])
		}
	}
	if vendors[0].Name != "Acme Corp" {
		t.Errorf("first vendor name = %q", vendors[0].Name)
	}
}

func TestLoadVendors_RejectsMissingID(t *testing.T) {
	path := writeCSV(t, "vendors.csv", `vendor_id,vendor_name,is_fraud
VEN00001,Acme Corp,False
,Ghost Vendor,False
`)

	vendors, rejected, err := LoadVendors(path, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("LoadVendors() error = %v", err)
	}
	if rejected != 1 {
		t.Errorf("rejected = %d, want 1", rejected)
	}
	if len(vendors) != 1 {
		t.Errorf("loaded %d vendors, want 1", len(vendors))
	}
}

func TestLoad(t *testing.T) {
	vendorsPath := writeCSV(t, "vendors.csv", `vendor_id,vendor_name,is_fraud
VEN00001,Acme Corp,False
VEN00002,Globex Ltd,True
`)
	txnsPath := writeCSV(t, "transactions.csv", `transaction_id,vendor_id,official_id,amount,date
TXN000001,VEN00001,OFF0001,100.50,2024-01-01
TXN000002,VEN00002,OFF0001,bad,2024-01-02
TXN000003,VEN00002,OFF0002,99.50,2024-01-03
`)

	led, err := Load(vendorsPath, txnsPath, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(led.Vendors) != 2 {
		t.Errorf("vendors = %d, want 2", len(led.Vendors))
	}
	if len(led.Transactions) != 2 {
		t.Errorf("transactions = %d, want 2", len(led.Transactions))
	}
	if led.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", led.Rejected)
	}
	if total := led.TotalAmount(); total != 200.0 {
		t.Errorf("TotalAmount() = %v, want 200.0", total)
	}
}
