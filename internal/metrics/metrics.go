// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "tradebot"

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Engine metrics
	signalsGenerated  *prometheus.CounterVec
	evaluationErrors  *prometheus.CounterVec
	evalDuration      prometheus.Histogram
	analysisCycles    prometheus.Counter
	analysisDuration  prometheus.Histogram
	backtestsTotal    *prometheus.CounterVec
	sentimentOutcomes *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	watchlistSymbols  prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.signalsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_generated_total",
			Help:      "Total number of signals generated",
		},
		[]string{"strategy", "action", "regime"},
	)
	r.evaluationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_failures_total",
			Help:      "Symbols whose evaluation failed or was skipped, by stage",
		},
		[]string{"stage"},
	)
	r.evalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Per-symbol evaluation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
	r.analysisCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_cycles_total",
			Help:      "Total number of analysis cycles completed",
		},
	)
	r.analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Analysis cycle duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)
	r.backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backtests_total",
			Help:      "Total number of backtests",
		},
		[]string{"status"},
	)
	r.sentimentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_requests_total",
			Help:      "Sentiment analyzer calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	r.notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Signal notification deliveries by notifier and outcome",
		},
		[]string{"notifier", "outcome"},
	)
	r.watchlistSymbols = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watchlist_symbols",
			Help:      "Number of symbols in watchlist",
		},
	)

	reg.MustRegister(r.signalsGenerated)
	reg.MustRegister(r.evaluationErrors)
	reg.MustRegister(r.evalDuration)
	reg.MustRegister(r.analysisCycles)
	reg.MustRegister(r.analysisDuration)
	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.sentimentOutcomes)
	reg.MustRegister(r.notifications)
	reg.MustRegister(r.watchlistSymbols)

	return r
}

// RecordRequest records metrics for an HTTP request. route is the matched
// mux pattern, not the raw path.
func (r *Registry) RecordRequest(method, route string, status int, duration float64) {
	r.httpRequestsTotal.WithLabelValues(method, route, statusToString(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, route).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordSignal records a generated signal.
func (r *Registry) RecordSignal(strategy, action, regime string) {
	if regime == "" {
		regime = "none"
	}
	r.signalsGenerated.WithLabelValues(strategy, action, regime).Inc()
}

// RecordEvaluation observes one symbol's evaluation time.
func (r *Registry) RecordEvaluation(duration float64) {
	r.evalDuration.Observe(duration)
}

// RecordEvaluationFailure counts a symbol dropped at stage.
func (r *Registry) RecordEvaluationFailure(stage string) {
	r.evaluationErrors.WithLabelValues(stage).Inc()
}

// RecordAnalysisCycle records an analysis cycle completion.
func (r *Registry) RecordAnalysisCycle(duration float64) {
	r.analysisCycles.Inc()
	r.analysisDuration.Observe(duration)
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(status string) {
	r.backtestsTotal.WithLabelValues(status).Inc()
}

// RecordSentiment records one analyzer call. A nil err counts as success.
func (r *Registry) RecordSentiment(provider string, err error) {
	r.sentimentOutcomes.WithLabelValues(provider, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordNotification records one notifier delivery.
func (r *Registry) RecordNotification(notifier string, err error) {
	r.notifications.WithLabelValues(notifier, outcome(err)).Inc()
}

// SetWatchlistSize sets the watchlist size.
func (r *Registry) SetWatchlistSize(size int) {
	r.watchlistSymbols.Set(float64(size))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
