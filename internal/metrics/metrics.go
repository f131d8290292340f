package metrics

import (
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes engine activity to Prometheus. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	flows         *prometheus.CounterVec
	notifications *prometheus.CounterVec
	sinkErrors    *prometheus.CounterVec
	unread        prometheus.Gauge
	logLength     prometheus.Gauge
	tickPackets   *prometheus.GaugeVec
	tickBytes     *prometheus.GaugeVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		flows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netsentinel_flows_total",
			Help: "Flows received from the capture side, by filter verdict.",
		}, []string{"verdict"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netsentinel_notifications_total",
			Help: "Notifications emitted, by kind.",
		}, []string{"kind"}),
		sinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netsentinel_sink_errors_total",
			Help: "Failed or dropped notification exports, by sink.",
		}, []string{"sink"}),
		unread: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netsentinel_notifications_unread",
			Help: "Notifications not yet marked as read.",
		}),
		logLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netsentinel_notification_log_length",
			Help: "Notifications currently held in the log.",
		}),
		tickPackets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "netsentinel_tick_packets",
			Help: "Packets counted in the last tick, by direction.",
		}, []string{"direction"}),
		tickBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "netsentinel_tick_bytes",
			Help: "Bytes counted in the last tick, by direction.",
		}, []string{"direction"}),
	}
	m.registry.MustRegister(m.flows, m.notifications, m.sinkErrors, m.unread, m.logLength, m.tickPackets, m.tickBytes)
	return m
}

// FlowAccepted counts a flow that passed the filters.
func (m *Metrics) FlowAccepted() {
	if m == nil {
		return
	}
	m.flows.WithLabelValues("accepted").Inc()
}

// FlowRejected counts a flow dropped by the filters.
func (m *Metrics) FlowRejected() {
	if m == nil {
		return
	}
	m.flows.WithLabelValues("rejected").Inc()
}

// SinkError counts an export failure for sink.
func (m *Metrics) SinkError(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}

// ObserveTick records the counters and emitted events of one tick.
func (m *Metrics) ObserveTick(c model.RuntimeCounters, events []notification.LoggedNotification) {
	if m == nil {
		return
	}
	m.tickPackets.WithLabelValues(model.Incoming.String()).Set(float64(c.IncomingPackets))
	m.tickPackets.WithLabelValues(model.Outgoing.String()).Set(float64(c.OutgoingPackets))
	m.tickBytes.WithLabelValues(model.Incoming.String()).Set(float64(c.IncomingBytes))
	m.tickBytes.WithLabelValues(model.Outgoing.String()).Set(float64(c.OutgoingBytes))
	for _, ev := range events {
		m.notifications.WithLabelValues(string(ev.Kind())).Inc()
	}
}

// ObserveLog sets the log gauges. It is meant to be the observer of the
// notification log, which calls it on every change.
func (m *Metrics) ObserveLog(unread uint64, logLen int) {
	if m == nil {
		return
	}
	m.unread.Set(float64(unread))
	m.logLength.Set(float64(logLen))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
