// Package prom adapts the store's listener.Listener channel to Prometheus
// metrics. Grounded directly on the teacher's metrics/prom/prom.go, ported
// from its fixed Hit/Miss/Evict/Size surface to the store's mutation-event
// vocabulary (listener.Before/After, listener.Op).
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brennanquinn/corecache/listener"
)

// Adapter implements listener.Listener and exports Prometheus counters and
// gauges for store mutations. Safe for concurrent use; every Prometheus
// metric type is goroutine-safe on its own, and Adapter holds no other
// state.
type Adapter[K comparable, V any] struct {
	ops      *prometheus.CounterVec
	removed  prometheus.Counter
	evicted  prometheus.Counter
	size     prometheus.Gauge
	volume   prometheus.Gauge
}

// New constructs a Prometheus adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New[K comparable, V any](reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter[K, V] {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter[K, V]{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "ops_total",
			Help:        "Store mutations by operation kind",
			ConstLabels: constLabels,
		}, []string{"op"}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "removed_total",
			Help:        "Entries explicitly removed (Remove/RemoveAll/Clear)",
			ConstLabels: constLabels,
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "evicted_total",
			Help:        "Entries evicted as a side effect of trimming",
			ConstLabels: constLabels,
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries after the last observed mutation",
			ConstLabels: constLabels,
		}),
		volume: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_volume",
			Help:        "Sum of SIZE attributes after the last observed mutation",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.ops, a.removed, a.evicted, a.size, a.volume)
	return a
}

// Before is a no-op: this adapter only reports on completed mutations.
func (a *Adapter[K, V]) Before(listener.Before[K]) {}

// After records the op kind and its removed/evicted entry counts.
func (a *Adapter[K, V]) After(ev listener.After[K, V]) {
	a.ops.WithLabelValues(ev.Op.String()).Inc()
	if n := len(ev.Removed); n > 0 {
		a.removed.Add(float64(n))
	}
	if n := len(ev.Evicted); n > 0 {
		a.evicted.Add(float64(n))
	}
}

// ObserveSize updates the resident size/volume gauges. Callers should call
// this after operations they want reflected — the listener channel alone
// does not carry the store's current totals.
func (a *Adapter[K, V]) ObserveSize(entries int, volume int64) {
	a.size.Set(float64(entries))
	a.volume.Set(float64(volume))
}

var _ listener.Listener[int, int] = (*Adapter[int, int])(nil)
