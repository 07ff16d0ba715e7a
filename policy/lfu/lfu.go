// Package lfu implements Least-Frequently-Used eviction: the victim is the
// entry with the fewest hits, ties broken by insertion order (oldest
// wins) — spec.md §4.4.
//
// Unlike FIFO/LRU/MRU, LFU's ordering key (hit count) isn't something the
// policy moves entries around for; it just needs SOME stable traversal
// order to break ties deterministically. The intrusive list scaffold is a
// convenient insertion-ordered doubly linked list for that purpose even
// though §4.3 only calls it out for FIFO/LRU/MRU by name — LFU here never
// calls MoveFirst/MoveLast, only AddLast/Remove, so it never pays for
// promotion it doesn't need.
package lfu

import (
	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy"
	"github.com/brennanquinn/corecache/policy/intrusive"
	"github.com/brennanquinn/corecache/wellknown"
)

type lfuPolicy[K comparable, V any] struct {
	order *intrusive.List[K, V]
}

// New constructs an LFU policy. It reads the well-known HITS attribute
// (maintained by the store's AttributeService on every read hit) rather
// than keeping a private counter, so HITS observed by a caller matches
// exactly what drove eviction.
func New[K comparable, V any]() policy.Policy[K, V] {
	return &lfuPolicy[K, V]{order: intrusive.New[K, V]("lfu.order")}
}

func (p *lfuPolicy[K, V]) Register(r policy.Registrar) {
	p.order.Register(r)
	_ = r.DependOnSoft(wellknown.Hits)
}

// Add appends the new entry at the insertion-order tail. All entries start
// tied at zero hits; new entries rank oldest-last among ties until touched.
func (p *lfuPolicy[K, V]) Add(e *entry.Entry[K, V]) bool {
	p.order.AddLast(e)
	return true
}

// Replace preserves insertion position: an update is not a fresh
// insertion, so it doesn't reset the tie-break order either.
func (p *lfuPolicy[K, V]) Replace(old, next *entry.Entry[K, V]) *entry.Entry[K, V] {
	p.order.Replace(old, next)
	return next
}

// Remove unlinks e from the insertion-order list.
func (p *lfuPolicy[K, V]) Remove(e *entry.Entry[K, V]) { p.order.Remove(e) }

// Touch is a no-op: frequency itself lives in the HITS attribute, bumped by
// the store's AttributeService before Touch is even called.
func (p *lfuPolicy[K, V]) Touch(*entry.Entry[K, V]) {}

// EvictNext scans in insertion order (oldest first) for the minimum HITS
// value; the first entry to reach a new minimum wins ties, which is
// exactly "ties broken by insertion order, oldest wins".
func (p *lfuPolicy[K, V]) EvictNext() *entry.Entry[K, V] {
	if p.order.Len() == 0 {
		return nil
	}
	var victim *entry.Entry[K, V]
	var victimHits int64
	for e := p.order.Front(); e != nil; e = p.order.NextOf(e) {
		h := attribute.Get(e.Attributes(), wellknown.Hits)
		if victim == nil || h < victimHits {
			victim, victimHits = e, h
		}
	}
	p.order.Remove(victim)
	return victim
}

// Clear resets the insertion-order list.
func (p *lfuPolicy[K, V]) Clear() { p.order.Clear() }
