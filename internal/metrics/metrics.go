// Package metrics provides the centralized Prometheus metrics registry for
// the prop analyzer.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PropsEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_analyzer",
		Name:      "props_evaluated_total",
		Help:      "Total number of (definition, line) pairs scored by the stat model",
	})
	PropsAcceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_analyzer",
		Name:      "props_accepted_total",
		Help:      "Total number of prop evaluations clearing their probability cutoff",
	})
	PropsCorrelationFilteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_analyzer",
		Name:      "props_correlation_filtered_total",
		Help:      "Total number of accepted props dropped by the negative correlation filter",
	})
	ParlaysComposedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_analyzer",
		Name:      "parlays_composed_total",
		Help:      "Total number of parlay candidates passing the joint probability floor",
	})
	HistoryFetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_analyzer",
		Name:      "history_fetch_errors_total",
		Help:      "Total number of historical data feed failures",
	})
	PlayersAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_analyzer",
		Name:      "players_analyzed_total",
		Help:      "Total number of players run through the analysis pipeline",
	})
	PlayersFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_analyzer",
		Name:      "players_failed_total",
		Help:      "Total number of players skipped due to analysis failures",
	})
)

// Gauge metrics
var (
	LastAnalysisPropsAccepted = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_analyzer",
		Name:      "last_analysis_props_accepted",
		Help:      "Accepted prop count of the most recent analysis run",
	})
	LastAnalysisParlays = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_analyzer",
		Name:      "last_analysis_parlays",
		Help:      "Parlay candidate count of the most recent analysis run",
	})
)

// Histogram metrics
var (
	PlayerAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prop_analyzer",
		Name:      "player_analysis_duration_seconds",
		Help:      "Duration of a full per-player evaluate+compose pass in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	HistoryFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prop_analyzer",
		Name:      "history_fetch_duration_seconds",
		Help:      "Latency of historical data feed requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PropsEvaluatedTotal)
		registry.MustRegister(PropsAcceptedTotal)
		registry.MustRegister(PropsCorrelationFilteredTotal)
		registry.MustRegister(ParlaysComposedTotal)
		registry.MustRegister(HistoryFetchErrorsTotal)
		registry.MustRegister(PlayersAnalyzedTotal)
		registry.MustRegister(PlayersFailedTotal)

		registry.MustRegister(LastAnalysisPropsAccepted)
		registry.MustRegister(LastAnalysisParlays)

		registry.MustRegister(PlayerAnalysisDuration)
		registry.MustRegister(HistoryFetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPlayerAnalysis records one completed per-player analysis pass.
func RecordPlayerAnalysis(durationSeconds float64) {
	PlayersAnalyzedTotal.Inc()
	PlayerAnalysisDuration.Observe(durationSeconds)
}
