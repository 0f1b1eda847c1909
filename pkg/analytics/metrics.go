package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks analytics query traffic and latency.
type Metrics struct {
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vpn_analytics_queries_total",
			Help: "Analytics queries by endpoint and status",
		}, []string{"endpoint", "status"}),
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vpn_analytics_query_duration_seconds",
			Help:    "Analytics query duration by endpoint",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
