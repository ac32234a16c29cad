package client

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes ingest counters on a private registry. A nil *Metrics
// is valid and counts nothing.
type Metrics struct {
	registry *prometheus.Registry

	lines      prometheus.Counter
	sent       prometheus.Counter
	unknown    prometheus.Counter
	reconnects prometheus.Counter
}

// NewMetrics builds the collector set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatwire",
			Name:      "lines_received_total",
			Help:      "Raw IRC lines received or simulated.",
		}),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatwire",
			Name:      "lines_sent_total",
			Help:      "Raw IRC lines written to the connection.",
		}),
		unknown: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatwire",
			Name:      "unknown_lines_total",
			Help:      "Lines or tag combinations no event covered.",
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatwire",
			Name:      "reconnects_total",
			Help:      "Connection attempts after the first.",
		}),
	}

	reg.MustRegister(m.lines, m.sent, m.unknown, m.reconnects)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncLines() {
	if m == nil {
		return
	}
	m.lines.Inc()
}

func (m *Metrics) IncSent() {
	if m == nil {
		return
	}
	m.sent.Inc()
}

func (m *Metrics) IncUnknown() {
	if m == nil {
		return
	}
	m.unknown.Inc()
}

func (m *Metrics) IncReconnects() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}
