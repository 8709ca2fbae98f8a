package orders

import "github.com/prometheus/client_golang/prometheus"

var (
	syncedOrders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trading_toolkit",
		Subsystem: "gtt",
		Name:      "orders",
		Help:      "Active GTT orders seen by the last sync",
	})
	lastSyncTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trading_toolkit",
		Subsystem: "gtt",
		Name:      "last_sync_timestamp_seconds",
		Help:      "Unix time of the last successful sync",
	})
	syncFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trading_toolkit",
		Subsystem: "gtt",
		Name:      "sync_failures_total",
		Help:      "The total number of failed syncs",
	})
)

func init() {
	prometheus.MustRegister(syncedOrders)
	prometheus.MustRegister(lastSyncTimestamp)
	prometheus.MustRegister(syncFailures)
}
