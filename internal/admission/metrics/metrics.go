package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions       *prometheus.CounterVec
	FailClosed      *prometheus.CounterVec
	StoreLatency    *prometheus.HistogramVec
	RecordsWritten  prometheus.Counter
	RecordConflicts prometheus.Counter
	TokensVerified  *prometheus.CounterVec
}

// New registers the admission metrics with reg. Tests pass a fresh
// prometheus.NewRegistry(); the server passes prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditgate_admission_decisions_total",
			Help: "Admission decisions by outcome and reason",
		}, []string{"outcome", "reason"}),
		FailClosed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditgate_admission_fail_closed_total",
			Help: "Denials caused by an unreadable record store, by lookup",
		}, []string{"lookup"}),
		StoreLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auditgate_admission_store_duration_seconds",
			Help:    "Latency of record store lookups",
			Buckets: prometheus.DefBuckets,
		}, []string{"lookup"}),
		RecordsWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "auditgate_audit_records_written_total",
			Help: "Completed audits recorded",
		}),
		RecordConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "auditgate_audit_record_conflicts_total",
			Help: "Completed audits rejected because the business already had a record",
		}),
		TokensVerified: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditgate_bypass_tokens_verified_total",
			Help: "Bypass token verifications by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveDecision(allowed bool, reason string) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	if reason == "" {
		reason = "none"
	}
	m.Decisions.WithLabelValues(outcome, reason).Inc()
}

func (m *Metrics) IncrementFailClosed(lookup string) {
	m.FailClosed.WithLabelValues(lookup).Inc()
}

func (m *Metrics) ObserveStoreLatency(lookup string, d time.Duration) {
	m.StoreLatency.WithLabelValues(lookup).Observe(d.Seconds())
}

func (m *Metrics) IncrementRecordsWritten() {
	m.RecordsWritten.Inc()
}

func (m *Metrics) IncrementRecordConflicts() {
	m.RecordConflicts.Inc()
}

func (m *Metrics) ObserveTokenVerification(result string) {
	m.TokensVerified.WithLabelValues(result).Inc()
}
