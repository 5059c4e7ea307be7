// Package export writes analysis results to their handoff formats: one CSV
// file per result table, plus an optional single-file compressed bundle for
// binary consumers. The CSV column names are the contract with the
// downstream scoring modules, which join on them by name.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/janusai/graftnet/pkg/analysis"
	"github.com/janusai/graftnet/pkg/logging"
	"github.com/janusai/graftnet/pkg/metrics"
)

var (
	repeatedPairColumns = []string{"vendor_id", "official_id", "interaction_count", "total_amount", "avg_transaction", "risk_score"}
	hubOfficialColumns  = []string{"official_id", "vendor_connections", "total_amount_approved", "risk_score"}
	clusterColumns      = []string{"cluster_id", "vendors", "vendor_count", "shared_officials", "official_count", "total_amount", "risk_score"}
	cycleColumns        = []string{"cycle_path", "cycle_length", "total_flow", "risk_score"}
	centralityColumns   = []string{"node_id", "node_type", "betweenness", "degree_centrality", "pagerank", "centrality_risk_score"}
	anomalyColumns      = []string{"transaction_id", "vendor_id", "official_id", "amount", "network_anomaly_score", "is_repeated_pair", "is_hub_official", "is_cluster_vendor"}
)

// Writer writes result tables as CSV files into a target directory.
type Writer struct {
	dir     string
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewWriter creates a Writer targeting dir. A nil logger or registry falls
// back to the package defaults.
func NewWriter(dir string, logger logging.Logger, reg *metrics.Registry) *Writer {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Writer{dir: dir, logger: logger, metrics: reg}
}

// WriteAll writes all six result tables, one CSV file per table. Empty
// tables still produce a header-only file so downstream readers always
// find the schema.
func (w *Writer) WriteAll(res *analysis.Result) error {
	if err := w.writeFile(analysis.NamePairs, len(res.Pairs), func(out io.Writer) error {
		return w.WriteRepeatedPairs(out, res.Pairs)
	}); err != nil {
		return err
	}
	if err := w.writeFile(analysis.NameHubs, len(res.Hubs), func(out io.Writer) error {
		return w.WriteHubOfficials(out, res.Hubs)
	}); err != nil {
		return err
	}
	if err := w.writeFile(analysis.NameClusters, len(res.Clusters), func(out io.Writer) error {
		return w.WriteClusters(out, res.Clusters)
	}); err != nil {
		return err
	}
	if err := w.writeFile(analysis.NameCycles, len(res.Cycles), func(out io.Writer) error {
		return w.WriteCycles(out, res.Cycles)
	}); err != nil {
		return err
	}
	if err := w.writeFile(analysis.NameCentrality, len(res.Centrality), func(out io.Writer) error {
		return w.WriteCentrality(out, res.Centrality)
	}); err != nil {
		return err
	}
	return w.writeFile(analysis.NameAnomalies, len(res.Transactions), func(out io.Writer) error {
		return w.WriteTransactionScores(out, res.Transactions)
	})
}

// writeFile creates <dir>/<table>.csv and hands it to write.
func (w *Writer) writeFile(table string, rows int, write func(io.Writer) error) (retErr error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(w.dir, table+".csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close export file: %w", closeErr)
		}
	}()

	if err := write(file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.metrics.RecordExport(table, rows)
	w.logger.Info("table exported", logging.Path(path), logging.Rows(rows))
	return nil
}

// WriteRepeatedPairs writes the repeated_pairs table to writer.
func (w *Writer) WriteRepeatedPairs(writer io.Writer, rows []analysis.RepeatedPair) (retErr error) {
	csvWriter := csv.NewWriter(writer)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	if err := csvWriter.Write(repeatedPairColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.VendorID,
			row.OfficialID,
			strconv.Itoa(row.InteractionCount),
			formatFloat(row.TotalAmount),
			formatFloat(row.AvgTransaction),
			strconv.Itoa(row.RiskScore),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteHubOfficials writes the hub_officials table to writer.
func (w *Writer) WriteHubOfficials(writer io.Writer, rows []analysis.HubOfficial) (retErr error) {
	csvWriter := csv.NewWriter(writer)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	if err := csvWriter.Write(hubOfficialColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.OfficialID,
			strconv.Itoa(row.VendorConnections),
			formatFloat(row.TotalAmountApproved),
			strconv.Itoa(row.RiskScore),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteClusters writes the vendor_clusters table to writer. List-valued
// columns are semicolon-joined.
func (w *Writer) WriteClusters(writer io.Writer, rows []analysis.Cluster) (retErr error) {
	csvWriter := csv.NewWriter(writer)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	if err := csvWriter.Write(clusterColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.ClusterID,
			strings.Join(row.Vendors, ";"),
			strconv.Itoa(row.VendorCount),
			strings.Join(row.SharedOfficials, ";"),
			strconv.Itoa(row.OfficialCount),
			formatFloat(row.TotalAmount),
			strconv.Itoa(row.RiskScore),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteCycles writes the cycles table to writer.
func (w *Writer) WriteCycles(writer io.Writer, rows []analysis.Cycle) (retErr error) {
	csvWriter := csv.NewWriter(writer)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	if err := csvWriter.Write(cycleColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.CyclePath,
			strconv.Itoa(row.CycleLength),
			formatFloat(row.TotalFlow),
			strconv.Itoa(row.RiskScore),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteCentrality writes the centrality_scores table to writer.
func (w *Writer) WriteCentrality(writer io.Writer, rows []analysis.CentralityRecord) (retErr error) {
	csvWriter := csv.NewWriter(writer)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	if err := csvWriter.Write(centralityColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.NodeID,
			row.NodeType,
			formatFloat(row.Betweenness),
			formatFloat(row.DegreeCentrality),
			formatFloat(row.PageRank),
			formatFloat(row.CentralityRiskScore),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteTransactionScores writes the network_anomalies table to writer.
func (w *Writer) WriteTransactionScores(writer io.Writer, rows []analysis.TransactionScore) (retErr error) {
	csvWriter := csv.NewWriter(writer)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	if err := csvWriter.Write(anomalyColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.TransactionID,
			row.VendorID,
			row.OfficialID,
			formatFloat(row.Amount),
			strconv.Itoa(row.NetworkAnomalyScore),
			strconv.FormatBool(row.IsRepeatedPair),
			strconv.FormatBool(row.IsHubOfficial),
			strconv.FormatBool(row.IsClusterVendor),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// formatFloat renders a float with the shortest representation that
// round-trips, so downstream parsers see exact values without exponent
// notation.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
