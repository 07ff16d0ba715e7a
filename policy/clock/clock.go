// Package clock implements the Clock (second-chance) replacement policy: a
// circular buffer of resident entries with a reference bit per entry.
// EvictNext sweeps from the hand, clearing set bits, until it finds one
// already clear (spec.md §4.4). Unlike FIFO/LRU/MRU, Clock is not built on
// the intrusive doubly-linked-list scaffold — §4.3 offers that helper to
// FIFO/LRU/MRU specifically, and a circular sweep with swap-delete removal
// is both simpler and closer to the textbook algorithm than forcing a ring
// out of the two-pointer list.
package clock

import (
	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy"
)

type clockPolicy[K comparable, V any] struct {
	ref *attribute.Descriptor[bool]

	ring  []*entry.Entry[K, V]
	index map[K]int
	hand  int
}

// New constructs a Clock policy.
func New[K comparable, V any]() policy.Policy[K, V] {
	return &clockPolicy[K, V]{
		ref:   attribute.New[bool]("clock.ref", false, nil),
		index: make(map[K]int),
	}
}

// Register declares the reference bit as a hard dependency: it is written
// by the store-driven Touch call on every read hit.
func (p *clockPolicy[K, V]) Register(r policy.Registrar) { _ = r.DependOnHard(p.ref) }

// Add appends the new entry to the ring with its reference bit clear: unless
// it is touched first, it is evicted the first time the hand reaches it.
func (p *clockPolicy[K, V]) Add(e *entry.Entry[K, V]) bool {
	p.index[e.Key()] = len(p.ring)
	p.ring = append(p.ring, e)
	return true
}

// Replace swaps next into old's ring slot in O(1) and carries the
// reference bit across (it lives on the Entry, and next is a new Entry).
func (p *clockPolicy[K, V]) Replace(old, next *entry.Entry[K, V]) *entry.Entry[K, V] {
	i, ok := p.index[old.Key()]
	if !ok {
		// Contract would be violated by the store calling Replace for an
		// entry we never admitted; fall back to a plain Add.
		p.Add(next)
		return next
	}
	if attribute.Get(old.Attributes(), p.ref) {
		_ = attribute.Put(next.Attributes(), p.ref, true)
	}
	p.ring[i] = next
	delete(p.index, old.Key())
	p.index[next.Key()] = i
	return next
}

// Remove deletes e from the ring via swap-with-last. If the hand would point
// past the end of the shortened ring it wraps to the start. An entry that
// the swap moves into a slot behind the hand is not revisited until the
// hand's next pass.
func (p *clockPolicy[K, V]) Remove(e *entry.Entry[K, V]) {
	i, ok := p.index[e.Key()]
	if !ok {
		return
	}
	last := len(p.ring) - 1
	delete(p.index, e.Key())
	if i != last {
		p.ring[i] = p.ring[last]
		p.index[p.ring[i].Key()] = i
	}
	p.ring = p.ring[:last]
	if len(p.ring) == 0 {
		p.hand = 0
		return
	}
	if p.hand >= last {
		p.hand = 0
	}
}

// Touch sets the reference bit.
func (p *clockPolicy[K, V]) Touch(e *entry.Entry[K, V]) {
	_ = attribute.Put(e.Attributes(), p.ref, true)
}

// EvictNext sweeps from the hand, clearing reference bits it finds set,
// until it finds (or makes) one cleared; that entry is evicted and the
// hand advances past it.
func (p *clockPolicy[K, V]) EvictNext() *entry.Entry[K, V] {
	n := len(p.ring)
	if n == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		e := p.ring[p.hand]
		if attribute.Get(e.Attributes(), p.ref) {
			_ = attribute.Put(e.Attributes(), p.ref, false)
			p.hand = (p.hand + 1) % n
			continue
		}
		p.Remove(e)
		return e
	}
	// Every entry had its bit set and is now cleared; evict whatever the
	// hand lands on now (guarantees liveness — spec.md §4.5.1).
	e := p.ring[p.hand]
	p.Remove(e)
	return e
}

// Clear empties the ring.
func (p *clockPolicy[K, V]) Clear() {
	p.ring = nil
	p.index = make(map[K]int)
	p.hand = 0
}
