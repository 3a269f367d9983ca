package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

var (
	ValidationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_runs_total",
			Help: "Total number of cart validation runs by configuration source",
		},
		[]string{"configuration_source"},
	)

	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Total number of validation runs that could not produce a result",
		},
		[]string{"reason"},
	)

	ValidationErrorsEmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "validation_errors_emitted_total",
			Help: "Total number of limit exceeded errors returned to checkout",
		},
	)

	ValidationCartLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "validation_cart_lines",
			Help:    "Number of cart lines per validation run",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	ValidationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "validation_duration_seconds",
			Help:    "Duration of validation runs including configuration lookup",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	LimitUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "limit_updates_total",
			Help: "Total number of limit settings updates",
		},
		[]string{"action", "outcome"},
	)

	ConfiguredVariantLimits = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "configured_variant_limits",
			Help: "Number of variants with a configured limit after the last update",
		},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var (
	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)
)

func TimeDBQuery(queryType, table string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start).Seconds()
		DBQueryDuration.WithLabelValues(queryType, table).Observe(duration)
	}
}

func RecordValidationRun(source string, lines, errorsEmitted int, duration time.Duration) {
	ValidationRunsTotal.WithLabelValues(source).Inc()
	ValidationErrorsEmittedTotal.Add(float64(errorsEmitted))
	ValidationCartLines.Observe(float64(lines))
	ValidationDuration.Observe(duration.Seconds())
}

func RecordValidationFailure(reason string) {
	ValidationFailuresTotal.WithLabelValues(reason).Inc()
}

func RecordLimitUpdate(action string, err error, configuredVariants int) {
	if err != nil {
		LimitUpdatesTotal.WithLabelValues(action, "rejected").Inc()
		return
	}
	LimitUpdatesTotal.WithLabelValues(action, "applied").Inc()
	ConfiguredVariantLimits.Set(float64(configuredVariants))
}

func RecordRateLimited() {
	HTTPRateLimitedTotal.Inc()
}
