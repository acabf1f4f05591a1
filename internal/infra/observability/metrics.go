package observability

import (
	"time"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the forecast service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	externalErrors   *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	projections      *prometheus.CounterVec
	lowBalanceAlerts prometheus.Counter
	categorizations  *prometheus.CounterVec
	anomalies        *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. A private registry lets tests build as many
// Metrics as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashflow_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		projections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_projections_total",
				Help: "Projections computed, by confidence tier.",
			},
			[]string{"confidence"},
		),
		lowBalanceAlerts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cashflow_low_balance_alerts_total",
				Help: "Projections that dip below the safety threshold within the horizon.",
			},
		),
		categorizations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_categorizations_total",
				Help: "Transactions categorized, by assigned category.",
			},
			[]string{"category"},
		),
		anomalies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_anomalies_total",
				Help: "Spending anomalies detected, by severity.",
			},
			[]string{"severity"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordProjection counts a projection and, if it runs low, an alert.
func (m *Metrics) RecordProjection(p *domain.CashFlowProjection) {
	m.projections.WithLabelValues(string(p.Confidence)).Inc()
	if p.RunsLow() {
		m.lowBalanceAlerts.Inc()
	}
}

// RecordCategorization counts one categorized transaction.
func (m *Metrics) RecordCategorization(category string) {
	m.categorizations.WithLabelValues(category).Inc()
}

// RecordAnomaly counts one detected anomaly.
func (m *Metrics) RecordAnomaly(severity domain.Severity) {
	m.anomalies.WithLabelValues(string(severity)).Inc()
}

// Snapshot returns cumulative counters for GET /v1/metrics/forecast.
func (m *Metrics) Snapshot() *domain.ForecastMetrics {
	byTier := make(map[string]int64, 3)
	var projections float64
	for _, tier := range []domain.ConfidenceTier{domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow} {
		v := getCounterValue(m.projections.WithLabelValues(string(tier)))
		byTier[string(tier)] = int64(v)
		projections += v
	}

	alerts := getCounterValue(m.lowBalanceAlerts)
	categorizations := sumCounterVec(m.categorizations)
	uncategorized := getCounterValue(m.categorizations.WithLabelValues(domain.CategoryOthers))

	hits := sumCounterVec(m.cacheHits)
	misses := sumCounterVec(m.cacheMisses)

	return &domain.ForecastMetrics{
		Projections:       int64(projections),
		ProjectionsByTier: byTier,
		LowBalanceAlerts:  int64(alerts),
		LowBalanceRate:    ratio(alerts, projections),
		Categorizations:   int64(categorizations),
		UncategorizedRate: ratio(uncategorized, categorizations),
		AnomaliesHigh:     int64(getCounterValue(m.anomalies.WithLabelValues(string(domain.SeverityHigh)))),
		AnomaliesMedium:   int64(getCounterValue(m.anomalies.WithLabelValues(string(domain.SeverityMedium)))),
		CacheHitRate:      ratio(hits, hits+misses),
		Period:            "all_time",
	}
}

func ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole
}

// getCounterValue extracts the current value of a single counter.
func getCounterValue(c prometheus.Metric) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// sumCounterVec adds up every label combination of cv.
func sumCounterVec(cv *prometheus.CounterVec) float64 {
	ch := make(chan prometheus.Metric)
	go func() {
		cv.Collect(ch)
		close(ch)
	}()

	var total float64
	for metric := range ch {
		total += getCounterValue(metric)
	}
	return total
}
