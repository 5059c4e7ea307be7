// Package metrics exposes the pipeline's prometheus instrumentation: ledger
// ingest counters, graph size gauges, per-analysis durations and signal
// counts, and export/store activity.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the pipeline
type Registry struct {
	// Ingest Metrics
	IngestTransactionsTotal *prometheus.CounterVec
	IngestVendorsTotal      prometheus.Counter

	// Graph Metrics
	GraphVendorsTotal   prometheus.Gauge
	GraphOfficialsTotal prometheus.Gauge
	GraphEdgesTotal     prometheus.Gauge
	GraphTotalAmount    prometheus.Gauge

	// Analysis Metrics
	AnalysisDuration     *prometheus.HistogramVec
	AnalysisSignalsTotal *prometheus.CounterVec
	PipelineRunsTotal    *prometheus.CounterVec
	PipelineDuration     prometheus.Histogram

	// Export Metrics
	ExportRowsTotal  *prometheus.CounterVec
	StoreWritesTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initIngestMetrics()
	r.initGraphMetrics()
	r.initAnalysisMetrics()
	r.initExportMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
