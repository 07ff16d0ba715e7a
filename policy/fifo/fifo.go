// Package fifo implements the FIFO (first-in-first-out) replacement
// policy: eviction order follows insertion order, unaffected by reads.
// Grounded on the teacher's policy/lru package, stripped of promotion.
package fifo

import (
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy"
	"github.com/brennanquinn/corecache/policy/intrusive"
)

type fifoPolicy[K comparable, V any] struct{ list *intrusive.List[K, V] }

// New constructs a FIFO policy. Each call reserves a fresh pair of
// intrusive next/prev attribute slots (see intrusive.New).
func New[K comparable, V any]() policy.Policy[K, V] {
	return &fifoPolicy[K, V]{list: intrusive.New[K, V]("fifo")}
}

func (p *fifoPolicy[K, V]) Register(r policy.Registrar) { p.list.Register(r) }

// Add links the new entry at the head; head represents "most recently
// inserted", tail represents "longest resident" — the FIFO eviction order.
func (p *fifoPolicy[K, V]) Add(e *entry.Entry[K, V]) bool {
	p.list.AddFirst(e)
	return true
}

// Replace keeps next's value but preserves old's position in insertion
// order: an update is not a fresh insertion for FIFO purposes.
func (p *fifoPolicy[K, V]) Replace(old, next *entry.Entry[K, V]) *entry.Entry[K, V] {
	p.list.Replace(old, next)
	return next
}

// Remove unlinks e. No other bookkeeping: FIFO has no secondary state.
func (p *fifoPolicy[K, V]) Remove(e *entry.Entry[K, V]) { p.list.Remove(e) }

// Touch is a no-op: reads never affect FIFO order.
func (p *fifoPolicy[K, V]) Touch(*entry.Entry[K, V]) {}

// EvictNext removes and returns the tail (the longest-resident entry).
func (p *fifoPolicy[K, V]) EvictNext() *entry.Entry[K, V] {
	e := p.list.RemoveLast()
	return e
}

// Clear resets the list.
func (p *fifoPolicy[K, V]) Clear() { p.list.Clear() }
