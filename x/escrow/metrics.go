package escrow

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the escrow operations processed by the handlers. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	created   prometheus.Counter
	released  prometheus.Counter
	delivered prometheus.Counter
	rejected  *prometheus.CounterVec
}

// NewMetrics creates the escrow counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "escrow",
			Name:      "created_total",
			Help:      "Total escrows created.",
		}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "escrow",
			Name:      "released_total",
			Help:      "Total successful release requests, including repeated ones.",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "escrow",
			Name:      "delivered_total",
			Help:      "Total successful deliver requests, including repeated ones.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "escrow",
			Name:      "rejected_total",
			Help:      "Total escrow transactions rejected on delivery, by message path.",
		}, []string{"path"}),
	}
	reg.MustRegister(m.created, m.released, m.delivered, m.rejected)
	return m
}

func (m *Metrics) incCreated() {
	if m != nil {
		m.created.Inc()
	}
}

func (m *Metrics) incReleased() {
	if m != nil {
		m.released.Inc()
	}
}

func (m *Metrics) incDelivered() {
	if m != nil {
		m.delivered.Inc()
	}
}

func (m *Metrics) incRejected(path string) {
	if m != nil {
		m.rejected.WithLabelValues(path).Inc()
	}
}
