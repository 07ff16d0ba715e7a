// Package lru implements the classic move-to-front Least-Recently-Used
// replacement policy. Grounded directly on the teacher's policy/lru
// package, generalized from shard-hook-driven list manipulation to the
// spec's attribute-map-backed intrusive list.
package lru

import (
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy"
	"github.com/brennanquinn/corecache/policy/intrusive"
)

type lruPolicy[K comparable, V any] struct{ list *intrusive.List[K, V] }

// New constructs an LRU policy.
func New[K comparable, V any]() policy.Policy[K, V] {
	return &lruPolicy[K, V]{list: intrusive.New[K, V]("lru")}
}

func (p *lruPolicy[K, V]) Register(r policy.Registrar) { p.list.Register(r) }

// Add places the new entry at MRU.
func (p *lruPolicy[K, V]) Add(e *entry.Entry[K, V]) bool {
	p.list.AddFirst(e)
	return true
}

// Replace transplants old's position onto next, then promotes next to MRU:
// an update counts as recent use.
func (p *lruPolicy[K, V]) Replace(old, next *entry.Entry[K, V]) *entry.Entry[K, V] {
	p.list.Replace(old, next)
	p.list.MoveFirst(next)
	return next
}

// Remove unlinks e.
func (p *lruPolicy[K, V]) Remove(e *entry.Entry[K, V]) { p.list.Remove(e) }

// Touch promotes e to MRU.
func (p *lruPolicy[K, V]) Touch(e *entry.Entry[K, V]) { p.list.MoveFirst(e) }

// EvictNext removes and returns the tail (least-recently-used entry).
func (p *lruPolicy[K, V]) EvictNext() *entry.Entry[K, V] { return p.list.RemoveLast() }

// Clear resets the list.
func (p *lruPolicy[K, V]) Clear() { p.list.Clear() }
