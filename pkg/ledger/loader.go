package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/janusai/graftnet/pkg/logging"
)

// Registry CSV schema: vendor_id, vendor_name, is_fraud
// Ledger CSV schema:   transaction_id, vendor_id, official_id, amount, date
//
// Columns are matched by header name, so extra columns and reordered
// files load cleanly.

// Load reads the vendor registry and transaction ledger CSVs into a Ledger.
func Load(vendorsPath, transactionsPath string, logger logging.Logger) (*Ledger, error) {
	vendors, rejectedVendors, err := LoadVendors(vendorsPath, logger)
	if err != nil {
		return nil, err
	}

	txns, rejectedTxns, err := LoadTransactions(transactionsPath, logger)
	if err != nil {
		return nil, err
	}

	return &Ledger{
		Vendors:      vendors,
		Transactions: txns,
		Rejected:     rejectedVendors + rejectedTxns,
	}, nil
}

// LoadVendors reads the vendor registry CSV. Returns the accepted rows and
// the number of rejected rows.
func LoadVendors(path string, logger logging.Logger) ([]Vendor, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open vendor registry: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	colIndex, err := readHeader(reader, path, "vendor_id")
	if err != nil {
		return nil, 0, err
	}

	vendors := make([]Vendor, 0)
	rejected := 0
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rejected, fmt.Errorf("read %s (line %d): %w", path, line+1, err)
		}
		line++

		vendor := Vendor{
			ID:   getField(record, colIndex, "vendor_id"),
			Name: getField(record, colIndex, "vendor_name"),
		}
		if raw := getField(record, colIndex, "is_fraud"); raw != "" {
			// pandas writes Python bools as True/False
			flag, err := strconv.ParseBool(strings.ToLower(raw))
			if err != nil {
				logger.Warn("unparseable is_fraud flag, assuming false",
					logging.Path(path), logging.Int("line", line), logging.String("value", raw))
			}
			vendor.Fraud = flag
		}

		if err := CheckVendor(&vendor); err != nil {
			rejected++
			logger.Warn("rejecting vendor row",
				logging.Path(path), logging.Int("line", line), logging.Error(err))
			continue
		}

		vendors = append(vendors, vendor)
	}

	logger.Info("vendor registry loaded",
		logging.Path(path), logging.Rows(len(vendors)), logging.Int("rejected", rejected))

	return vendors, rejected, nil
}

// LoadTransactions reads the transaction ledger CSV. Returns the accepted
// rows in file order and the number of rejected rows.
func LoadTransactions(path string, logger logging.Logger) ([]Transaction, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open transaction ledger: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	colIndex, err := readHeader(reader, path, "transaction_id", "vendor_id", "official_id", "amount")
	if err != nil {
		return nil, 0, err
	}

	txns := make([]Transaction, 0)
	rejected := 0
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rejected, fmt.Errorf("read %s (line %d): %w", path, line+1, err)
		}
		line++

		txn := Transaction{
			ID:         getField(record, colIndex, "transaction_id"),
			VendorID:   getField(record, colIndex, "vendor_id"),
			OfficialID: getField(record, colIndex, "official_id"),
		}

		rawAmount := getField(record, colIndex, "amount")
		amount, err := strconv.ParseFloat(rawAmount, 64)
		if err != nil {
			rejected++
			logger.Warn("rejecting transaction row",
				logging.Path(path), logging.Int("line", line),
				logging.String("amount", rawAmount), logging.Error(ErrBadAmount))
			continue
		}
		txn.Amount = amount

		if raw := getField(record, colIndex, "date"); raw != "" {
			date, err := parseDate(raw)
			if err != nil {
				// The date feeds no analysis; keep the row
				logger.Warn("unparseable transaction date",
					logging.Path(path), logging.Int("line", line), logging.String("date", raw))
			}
			txn.Date = date
		}

		if err := CheckTransaction(&txn); err != nil {
			rejected++
			logger.Warn("rejecting transaction row",
				logging.Path(path), logging.Int("line", line), logging.Error(err))
			continue
		}

		txns = append(txns, txn)
	}

	logger.Info("transaction ledger loaded",
		logging.Path(path), logging.Rows(len(txns)), logging.Int("rejected", rejected))

	return txns, rejected, nil
}

// readHeader reads the CSV header and builds a column index map, verifying
// the required columns are present.
func readHeader(reader *csv.Reader, path string, required ...string) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%s: column %q: %w", path, col, ErrMissingColumn)
		}
	}

	return colIndex, nil
}

func getField(record []string, colIndex map[string]int, field string) string {
	if idx, ok := colIndex[field]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadDate
}
