package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the update pipeline.
type Metrics struct {
	registry *prometheus.Registry

	SymbolsAnalyzed *prometheus.CounterVec // labels: region
	SymbolsFailed   *prometheus.CounterVec // labels: reason
	FetchDuration   prometheus.Histogram
	UpdateDuration  prometheus.Histogram
	ConfidenceScore *prometheus.GaugeVec // labels: ticker, region
	LastUpdate      prometheus.Gauge     // unix seconds of the last published document
}

// NewMetrics creates and registers all metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SymbolsAnalyzed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scout_symbols_analyzed_total",
			Help: "Symbols scored successfully",
		}, []string{"region"}),
		SymbolsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scout_symbols_failed_total",
			Help: "Symbols skipped during an update (by reason)",
		}, []string{"reason"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scout_fetch_duration_seconds",
			Help:    "History retrieval latency per symbol, including retries",
			Buckets: prometheus.DefBuckets,
		}),
		UpdateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scout_update_duration_seconds",
			Help:    "Duration of a full watchlist update",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		ConfidenceScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scout_confidence_score",
			Help: "Latest confidence score per ticker",
		}, []string{"ticker", "region"}),
		LastUpdate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scout_last_update_timestamp_seconds",
			Help: "Time of the last published results document",
		}),
	}

	m.registry.MustRegister(
		m.SymbolsAnalyzed,
		m.SymbolsFailed,
		m.FetchDuration,
		m.UpdateDuration,
		m.ConfidenceScore,
		m.LastUpdate,
	)
	return m
}

// ObserveFetch records how long a history retrieval took.
func (m *Metrics) ObserveFetch(d time.Duration) {
	m.FetchDuration.Observe(d.Seconds())
}

// RecordResult counts a scored symbol and publishes its score.
func (m *Metrics) RecordResult(ticker, region string, score float64) {
	m.SymbolsAnalyzed.WithLabelValues(region).Inc()
	m.ConfidenceScore.WithLabelValues(ticker, region).Set(score)
}

// RecordFailure counts a skipped symbol.
func (m *Metrics) RecordFailure(reason string) {
	m.SymbolsFailed.WithLabelValues(reason).Inc()
}

// RecordUpdate records a finished update run.
func (m *Metrics) RecordUpdate(d time.Duration, publishedAt time.Time) {
	m.UpdateDuration.Observe(d.Seconds())
	m.LastUpdate.Set(float64(publishedAt.Unix()))
}

// Handler returns the HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
