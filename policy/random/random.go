// Package random implements a policy with no ordering at all: EvictNext
// picks a pseudo-random resident entry (spec.md §4.4).
//
// The teacher's cache has no random policy to ground this on; instead this
// borrows the pack's hashing dependency (github.com/cespare/xxhash/v2, used
// by both the teacher indirectly via prometheus and directly by
// dgraph-io/ristretto) to seed a small deterministic PRNG from a monotonic
// call counter instead of math/rand's global source. That makes eviction
// choices reproducible given the same operation sequence — this package's
// own tests replay one sequence twice and expect the same victims both
// times.
package random

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy"
)

type randomPolicy[K comparable, V any] struct {
	entries []*entry.Entry[K, V]
	index   map[K]int
	calls   uint64
}

// New constructs a Random policy.
func New[K comparable, V any]() policy.Policy[K, V] {
	return &randomPolicy[K, V]{index: make(map[K]int)}
}

// Register declares no attribute dependencies: Random needs no per-entry
// bookkeeping beyond the store's own map.
func (p *randomPolicy[K, V]) Register(policy.Registrar) {}

// Add appends the new entry.
func (p *randomPolicy[K, V]) Add(e *entry.Entry[K, V]) bool {
	p.index[e.Key()] = len(p.entries)
	p.entries = append(p.entries, e)
	return true
}

// Replace swaps next in for old at the same slot.
func (p *randomPolicy[K, V]) Replace(old, next *entry.Entry[K, V]) *entry.Entry[K, V] {
	if i, ok := p.index[old.Key()]; ok {
		p.entries[i] = next
		delete(p.index, old.Key())
		p.index[next.Key()] = i
	} else {
		p.Add(next)
	}
	return next
}

// Remove deletes e via swap-with-last.
func (p *randomPolicy[K, V]) Remove(e *entry.Entry[K, V]) {
	i, ok := p.index[e.Key()]
	if !ok {
		return
	}
	last := len(p.entries) - 1
	delete(p.index, e.Key())
	if i != last {
		p.entries[i] = p.entries[last]
		p.index[p.entries[i].Key()] = i
	}
	p.entries = p.entries[:last]
}

// Touch is a no-op: Random ignores access patterns entirely.
func (p *randomPolicy[K, V]) Touch(*entry.Entry[K, V]) {}

// EvictNext picks a pseudo-random resident entry and removes it.
func (p *randomPolicy[K, V]) EvictNext() *entry.Entry[K, V] {
	n := len(p.entries)
	if n == 0 {
		return nil
	}
	i := int(p.next() % uint64(n))
	e := p.entries[i]
	p.Remove(e)
	return e
}

// Clear empties the policy.
func (p *randomPolicy[K, V]) Clear() {
	p.entries = nil
	p.index = make(map[K]int)
}

// next derives the next pseudo-random value from a monotonic call counter,
// so a fixed operation sequence always evicts the same victims.
func (p *randomPolicy[K, V]) next() uint64 {
	p.calls++
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], p.calls)
	return xxhash.Sum64(buf[:])
}
