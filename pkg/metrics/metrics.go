package metrics

import (
	"time"
)

// RecordIngest records the accept/reject outcome of an ingest pass
func (r *Registry) RecordIngest(accepted, rejected int) {
	r.IngestTransactionsTotal.WithLabelValues("accepted").Add(float64(accepted))
	r.IngestTransactionsTotal.WithLabelValues("rejected").Add(float64(rejected))
}

// RecordVendorsLoaded records vendor registry rows loaded
func (r *Registry) RecordVendorsLoaded(count int) {
	r.IngestVendorsTotal.Add(float64(count))
}

// UpdateGraphStats publishes the size of the built graph
func (r *Registry) UpdateGraphStats(vendors, officials, edges int, totalAmount float64) {
	r.GraphVendorsTotal.Set(float64(vendors))
	r.GraphOfficialsTotal.Set(float64(officials))
	r.GraphEdgesTotal.Set(float64(edges))
	r.GraphTotalAmount.Set(totalAmount)
}

// RecordAnalysis records one finished analysis with its signal count
func (r *Registry) RecordAnalysis(analysis string, signals int, duration time.Duration) {
	r.AnalysisDuration.WithLabelValues(analysis).Observe(duration.Seconds())
	r.AnalysisSignalsTotal.WithLabelValues(analysis).Add(float64(signals))
}

// RecordRun records one finished pipeline run
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.PipelineRunsTotal.WithLabelValues(status).Inc()
	r.PipelineDuration.Observe(duration.Seconds())
}

// RecordExport records rows written to one output table
func (r *Registry) RecordExport(table string, rows int) {
	r.ExportRowsTotal.WithLabelValues(table).Add(float64(rows))
}

// RecordStoreWrite records one database write batch
func (r *Registry) RecordStoreWrite(table, status string) {
	r.StoreWritesTotal.WithLabelValues(table, status).Inc()
}
