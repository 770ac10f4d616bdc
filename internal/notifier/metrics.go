package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	failureReminder = "reminder"
	failureSummary  = "summary"
	failurePersist  = "persist"
)

// Metrics exposes Prometheus collectors describing notifier runs.
type Metrics struct {
	runs             *prometheus.CounterVec
	remindersSent    prometheus.Counter
	summariesSent    prometheus.Counter
	deliveryFailures *prometheus.CounterVec
}

// MustNewMetrics registers the collectors with reg and panics on duplicate registration.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "notifier",
			Name:      "runs_total",
			Help:      "Scheduler runs by outcome.",
		}, []string{"outcome"}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "notifier",
			Name:      "reminders_sent_total",
			Help:      "Appointments marked as reminded after at least one successful delivery.",
		}),
		summariesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "notifier",
			Name:      "summaries_sent_total",
			Help:      "Daily summaries marked as sent.",
		}),
		deliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "notifier",
			Name:      "delivery_failures_total",
			Help:      "Failed message deliveries and state writes.",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.runs, m.remindersSent, m.summariesSent, m.deliveryFailures)
	return m
}

func (m *Metrics) run(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) reminderSent() {
	if m == nil {
		return
	}
	m.remindersSent.Inc()
}

func (m *Metrics) summarySent() {
	if m == nil {
		return
	}
	m.summariesSent.Inc()
}

func (m *Metrics) failure(kind string) {
	if m == nil {
		return
	}
	m.deliveryFailures.WithLabelValues(kind).Inc()
}
