package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphVendorsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graftnet_graph_vendors_total",
			Help: "Number of vendor nodes in the built interaction graph",
		},
	)

	r.GraphOfficialsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graftnet_graph_officials_total",
			Help: "Number of official nodes in the built interaction graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graftnet_graph_edges_total",
			Help: "Number of vendor-official edges in the built interaction graph",
		},
	)

	r.GraphTotalAmount = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graftnet_graph_total_amount",
			Help: "Sum of all ingested transaction amounts",
		},
	)
}
