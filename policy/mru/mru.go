// Package mru implements Most-Recently-Used eviction: like LRU's ordering,
// but EvictNext sacrifices the entry that was just touched instead of the
// one least recently touched. Useful for scan-resistant workloads where the
// most recent item is least likely to be reused soon (spec.md §4.4).
package mru

import (
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy"
	"github.com/brennanquinn/corecache/policy/intrusive"
)

type mruPolicy[K comparable, V any] struct{ list *intrusive.List[K, V] }

// New constructs an MRU policy.
func New[K comparable, V any]() policy.Policy[K, V] {
	return &mruPolicy[K, V]{list: intrusive.New[K, V]("mru")}
}

func (p *mruPolicy[K, V]) Register(r policy.Registrar) { p.list.Register(r) }

// Add places the new entry at MRU, same as LRU.
func (p *mruPolicy[K, V]) Add(e *entry.Entry[K, V]) bool {
	p.list.AddFirst(e)
	return true
}

// Replace transplants position, then promotes next to MRU.
func (p *mruPolicy[K, V]) Replace(old, next *entry.Entry[K, V]) *entry.Entry[K, V] {
	p.list.Replace(old, next)
	p.list.MoveFirst(next)
	return next
}

// Remove unlinks e.
func (p *mruPolicy[K, V]) Remove(e *entry.Entry[K, V]) { p.list.Remove(e) }

// Touch promotes e to MRU, like LRU.
func (p *mruPolicy[K, V]) Touch(e *entry.Entry[K, V]) { p.list.MoveFirst(e) }

// EvictNext removes and returns the head: the entry touched or inserted
// most recently.
func (p *mruPolicy[K, V]) EvictNext() *entry.Entry[K, V] { return p.list.RemoveFirst() }

// Clear resets the list.
func (p *mruPolicy[K, V]) Clear() { p.list.Clear() }
