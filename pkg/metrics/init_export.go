package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initExportMetrics() {
	r.ExportRowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graftnet_export_rows_total",
			Help: "Total number of result rows written per output table",
		},
		[]string{"table"},
	)

	r.StoreWritesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graftnet_store_writes_total",
			Help: "Total number of database write batches per table",
		},
		[]string{"table", "status"},
	)
}
