package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIngestMetrics() {
	r.IngestTransactionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graftnet_ingest_transactions_total",
			Help: "Total number of ledger transactions processed during ingest",
		},
		[]string{"status"},
	)

	r.IngestVendorsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graftnet_ingest_vendors_total",
			Help: "Total number of vendor registry rows loaded",
		},
	)
}
