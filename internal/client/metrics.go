package client

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trading_toolkit",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "The total number of requests sent per client and outcome",
		},
		[]string{"client", "outcome"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trading_toolkit",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Round trip time of requests per client",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"client"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
}

// RequestsTotal exposes the request counter so it can be persisted across restarts.
func RequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}
