package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records execution metadata for background worker jobs.
type JobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	drift    *prometheus.GaugeVec
}

// NewJobMetrics registers the worker job metrics on the provided registerer.
// A nil registerer yields a no-op instance, which keeps job code free of
// nil checks in tests.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "carebook_job_duration_seconds",
		Help:    "Duration of worker jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "carebook_job_success_total",
		Help: "Successful worker job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "carebook_job_failure_total",
		Help: "Failed worker job executions.",
	}, []string{"job"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "carebook_job_skipped_total",
		Help: "Worker job runs skipped because another instance held the lock.",
	}, []string{"job"})
	drift := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "carebook_balance_drift_accounts",
		Help: "Accounts whose stored balance disagrees with their ledger, per audit kind.",
	}, []string{"kind"})
	reg.MustRegister(duration, success, failure, skipped, drift)
	return &JobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		skipped:  skipped,
		drift:    drift,
	}
}

// ObserveDuration records the duration for the named job.
func (m *JobMetrics) ObserveDuration(job string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (m *JobMetrics) IncSuccess(job string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (m *JobMetrics) IncFailure(job string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncSkipped increments the lock-contention skip counter for the named job.
func (m *JobMetrics) IncSkipped(job string) {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.WithLabelValues(normalizeLabel(job)).Inc()
}

// SetBalanceDrift publishes the account count from the latest balance audit.
func (m *JobMetrics) SetBalanceDrift(kind string, accounts int) {
	if m == nil || m.drift == nil {
		return
	}
	m.drift.WithLabelValues(normalizeLabel(kind)).Set(float64(accounts))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
