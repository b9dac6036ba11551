package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskbot/internal/core/ports"
)

const namespace = "taskbot"

// Metrics holds the bot's Prometheus counters. One instance is shared by
// the dispatcher and the reminder sweeps.
type Metrics struct {
	commands    *prometheus.CounterVec
	parseMisses prometheus.Counter
	reminders   *prometheus.CounterVec
}

var _ ports.CommandMetrics = (*Metrics)(nil)

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of dispatched chat commands",
			},
			[]string{"kind", "outcome"},
		),
		parseMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_misses_total",
				Help:      "Total number of messages no command parser matched",
			},
		),
		reminders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reminders_total",
				Help:      "Total number of handoff reminder attempts",
			},
			[]string{"sweep", "outcome"},
		),
	}

	reg.MustRegister(
		m.commands,
		m.parseMisses,
		m.reminders,
	)

	return m
}

func (m *Metrics) ObserveCommand(kind, outcome string) {
	m.commands.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveParseMiss() {
	m.parseMisses.Inc()
}

func (m *Metrics) ObserveReminder(sweep, outcome string) {
	m.reminders.WithLabelValues(sweep, outcome).Inc()
}

// Handler exposes everything gathered by g in the text exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
