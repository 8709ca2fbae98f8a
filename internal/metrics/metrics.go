package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"

	"trading-toolkit/internal/client"
	"trading-toolkit/internal/database"
)

const requestsMetric = "requests_total"

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Handler serves /metrics and /health.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthCheckHandler)
	return mux
}

func NewServer(port int) *http.Server {
	return &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: Handler()}
}

// LoadFromDB restores request counters saved by a previous run.
func LoadFromDB() {
	saved, err := database.GetMetricsWithLabels(requestsMetric)
	if err != nil {
		log.Errorf("Failed to load metrics: %v", err)
		return
	}
	for name, outcomes := range saved {
		for outcome, value := range outcomes {
			client.RequestsTotal().WithLabelValues(name, outcome).Add(value)
		}
	}
	log.Debug("Metrics loaded from database.")
}

// SaveToDB persists the request counters.
func SaveToDB() {
	metricChan := make(chan prometheus.Metric, 1)
	go func() {
		client.RequestsTotal().Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Errorf("Failed to read requests metric: %v", err)
			continue
		}
		var name, outcome string
		for _, label := range metricProto.Label {
			switch label.GetName() {
			case "client":
				name = label.GetValue()
			case "outcome":
				outcome = label.GetValue()
			}
		}
		if err := database.SaveMetric(requestsMetric, name, outcome, metricProto.Counter.GetValue()); err != nil {
			log.Errorf("Failed to save metric: %v", err)
		}
	}

	log.Debug("Metrics saved to database.")
}
