package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Attempts     *prometheus.CounterVec
	Leads        *prometheus.CounterVec
	Dropped      prometheus.Counter
	SinkFailures *prometheus.CounterVec
	QueueDepth   prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditgate_attempts_total",
			Help: "Admission attempts logged, by outcome",
		}, []string{"outcome"}),
		Leads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditgate_leads_total",
			Help: "Lead signals detected, by reason",
		}, []string{"reason"}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "auditgate_attempts_dropped_total",
			Help: "Attempt entries dropped because the write queue was full or closed",
		}),
		SinkFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditgate_attempt_sink_failures_total",
			Help: "Failed writes of attempt entries, by sink",
		}, []string{"sink"}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "auditgate_attempt_queue_depth",
			Help: "Attempt entries waiting for the background writer",
		}),
	}
}

func (m *Metrics) IncrementAttempts(allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.Attempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementLeads(reason string) {
	m.Leads.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementDropped() {
	m.Dropped.Inc()
}

func (m *Metrics) IncrementSinkFailures(sink string) {
	m.SinkFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) SetQueueDepth(n int) {
	m.QueueDepth.Set(float64(n))
}
