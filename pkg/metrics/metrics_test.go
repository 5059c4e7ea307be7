package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.IngestTransactionsTotal == nil {
		t.Error("IngestTransactionsTotal not initialized")
	}
	if r.GraphVendorsTotal == nil {
		t.Error("GraphVendorsTotal not initialized")
	}
	if r.AnalysisDuration == nil {
		t.Error("AnalysisDuration not initialized")
	}
	if r.ExportRowsTotal == nil {
		t.Error("ExportRowsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordIngest(t *testing.T) {
	r := NewRegistry()

	r.RecordIngest(95, 5)
	r.RecordIngest(10, 0)

	accepted, err := r.IngestTransactionsTotal.GetMetricWithLabelValues("accepted")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := accepted.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 105 {
		t.Errorf("Accepted counter = %v, want 105", metric.Counter.GetValue())
	}

	rejected, err := r.IngestTransactionsTotal.GetMetricWithLabelValues("rejected")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := rejected.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 5 {
		t.Errorf("Rejected counter = %v, want 5", metric.Counter.GetValue())
	}
}

func TestUpdateGraphStats(t *testing.T) {
	r := NewRegistry()

	r.UpdateGraphStats(50, 12, 140, 125000.5)

	var metric dto.Metric
	if err := r.GraphVendorsTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 50 {
		t.Errorf("Vendor gauge = %v, want 50", metric.Gauge.GetValue())
	}

	if err := r.GraphEdgesTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 140 {
		t.Errorf("Edge gauge = %v, want 140", metric.Gauge.GetValue())
	}

	if err := r.GraphTotalAmount.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 125000.5 {
		t.Errorf("Amount gauge = %v, want 125000.5", metric.Gauge.GetValue())
	}
}

func TestRecordAnalysis(t *testing.T) {
	r := NewRegistry()

	r.RecordAnalysis("repeated_pairs", 7, 50*time.Millisecond)
	r.RecordAnalysis("repeated_pairs", 3, 30*time.Millisecond)
	r.RecordAnalysis("hub_officials", 2, 10*time.Millisecond)

	signals, err := r.AnalysisSignalsTotal.GetMetricWithLabelValues("repeated_pairs")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := signals.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 10 {
		t.Errorf("Signal counter = %v, want 10", metric.Counter.GetValue())
	}

	duration, err := r.AnalysisDuration.GetMetricWithLabelValues("repeated_pairs")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := duration.(prometheus.Metric).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("Duration samples = %v, want 2", metric.Histogram.GetSampleCount())
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	r.RecordRun("success", 2*time.Second)
	r.RecordRun("success", 3*time.Second)
	r.RecordRun("error", time.Second)

	success, err := r.PipelineRunsTotal.GetMetricWithLabelValues("success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := success.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Success counter = %v, want 2", metric.Counter.GetValue())
	}
}

func TestRecordExportAndStore(t *testing.T) {
	r := NewRegistry()

	r.RecordExport("repeated_pairs", 42)
	r.RecordExport("repeated_pairs", 8)
	r.RecordStoreWrite("vendor_clusters", "success")

	rows, err := r.ExportRowsTotal.GetMetricWithLabelValues("repeated_pairs")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := rows.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 50 {
		t.Errorf("Export rows counter = %v, want 50", metric.Counter.GetValue())
	}

	writes, err := r.StoreWritesTotal.GetMetricWithLabelValues("vendor_clusters", "success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := writes.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Store writes counter = %v, want 1", metric.Counter.GetValue())
	}
}
