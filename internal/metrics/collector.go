// Package metrics holds the Prometheus collector for a damasim run: DAMA
// link-layer counters (collisions, drops, deliveries) and Noordwijk
// congestion-control gauges (burst size, pacing delay), wired the way
// gobfd's internal/metrics wires its BFD collector.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "damasim"

// Label names shared across the collector's vectors.
const (
	labelNode = "node"
)

// Collector holds every damasim Prometheus metric. Metrics are an
// optional observer (spec.md §6, "Trace sinks... are optional
// observability hooks, not part of the core contract"): a simulation run
// with no Collector attached behaves identically.
type Collector struct {
	// Collisions counts R-ALOHA collision notifications per node.
	Collisions *prometheus.CounterVec
	// Deliveries counts data frames accepted by a node's receiver.
	Deliveries *prometheus.CounterVec
	// QueueDrops counts frames dropped because a Mac's send queue was
	// full.
	QueueDrops *prometheus.CounterVec
	// SlotReservations counts slots a node's R-ALOHA controller reserved.
	SlotReservations *prometheus.CounterVec
	// BurstSize tracks each node's current Noordwijk burst_size.
	BurstSize *prometheus.GaugeVec
	// TxTimer tracks each node's current Noordwijk pacing delay, in
	// milliseconds.
	TxTimerMS *prometheus.GaugeVec
	// Retransmissions counts Noordwijk-triggered retransmissions per
	// node. Only triple-dup retransmissions occur; an RTO resends nothing.
	Retransmissions *prometheus.CounterVec
}

// NewCollector creates a Collector with every damasim metric registered
// against reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := newMetrics()
	reg.MustRegister(
		c.Collisions,
		c.Deliveries,
		c.QueueDrops,
		c.SlotReservations,
		c.BurstSize,
		c.TxTimerMS,
		c.Retransmissions,
	)
	return c
}

func newMetrics() *Collector {
	nodeLabels := []string{labelNode}
	return &Collector{
		Collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dama",
			Name:      "collisions_total",
			Help:      "Total R-ALOHA collision notifications.",
		}, nodeLabels),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dama",
			Name:      "deliveries_total",
			Help:      "Total data frames accepted by a node's receiver.",
		}, nodeLabels),
		QueueDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dama",
			Name:      "queue_drops_total",
			Help:      "Total frames dropped because a Mac's send queue was full.",
		}, nodeLabels),
		SlotReservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dama",
			Name:      "slot_reservations_total",
			Help:      "Total TDMA slots reserved by a node's R-ALOHA controller.",
		}, nodeLabels),
		BurstSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "noordwijk",
			Name:      "burst_size",
			Help:      "Current Noordwijk burst_size, in segments.",
		}, nodeLabels),
		TxTimerMS: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "noordwijk",
			Name:      "tx_timer_ms",
			Help:      "Current Noordwijk pacing delay, in milliseconds.",
		}, nodeLabels),
		Retransmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "noordwijk",
			Name:      "retransmissions_total",
			Help:      "Total Noordwijk-triggered retransmissions (triple-dup).",
		}, nodeLabels),
	}
}

// IncCollision increments the collision counter for node.
func (c *Collector) IncCollision(node string) {
	c.Collisions.WithLabelValues(node).Inc()
}

// IncDelivery increments the delivery counter for node.
func (c *Collector) IncDelivery(node string) {
	c.Deliveries.WithLabelValues(node).Inc()
}

// IncQueueDrop increments the queue-drop counter for node.
func (c *Collector) IncQueueDrop(node string) {
	c.QueueDrops.WithLabelValues(node).Inc()
}

// IncSlotReservation increments the slot-reservation counter for node.
func (c *Collector) IncSlotReservation(node string) {
	c.SlotReservations.WithLabelValues(node).Inc()
}

// SetBurstSize sets the current burst size gauge for node.
func (c *Collector) SetBurstSize(node string, size int) {
	c.BurstSize.WithLabelValues(node).Set(float64(size))
}

// SetTxTimerMS sets the current pacing delay gauge for node, in
// milliseconds.
func (c *Collector) SetTxTimerMS(node string, ms int64) {
	c.TxTimerMS.WithLabelValues(node).Set(float64(ms))
}

// IncRetransmission increments the retransmission counter for node.
func (c *Collector) IncRetransmission(node string) {
	c.Retransmissions.WithLabelValues(node).Inc()
}
