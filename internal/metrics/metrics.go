// Package metrics exposes Prometheus counters for market-data fetches and
// refresh runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh outcomes.
const (
	RefreshOK    = "ok"
	RefreshError = "error"
	RefreshIdle  = "idle"
)

// Metrics holds all Prometheus metrics for the analysis pipeline.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec   // labels: source, result
	FetchDuration *prometheus.HistogramVec // labels: source
	BarsFetched   prometheus.Gauge
	RefreshTotal  *prometheus.CounterVec // labels: result
	LastRefresh   prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics registers and returns all metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockinsight_fetch_total",
			Help: "Market data requests by source and result",
		}, []string{"source", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockinsight_fetch_duration_seconds",
			Help:    "Market data request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		BarsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockinsight_bars_fetched",
			Help: "Bars returned by the last successful fetch",
		}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockinsight_refresh_total",
			Help: "Refresh runs by result",
		}, []string{"result"}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockinsight_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful refresh",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.BarsFetched,
		m.RefreshTotal,
		m.LastRefresh,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveFetch records one provider call.
func (m *Metrics) ObserveFetch(source string, elapsed time.Duration, bars int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FetchTotal.WithLabelValues(source, result).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if err == nil {
		m.BarsFetched.Set(float64(bars))
	}
}

// ObserveRefresh records the outcome of one refresh run.
func (m *Metrics) ObserveRefresh(result string) {
	m.RefreshTotal.WithLabelValues(result).Inc()
	if result == RefreshOK {
		m.LastRefresh.SetToCurrentTime()
	}
}

// Registry returns the registry the metrics live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
