// Package intrusive provides the doubly-linked-list scaffold offered to
// policies that need MRU/LRU ordering (FIFO, LRU, MRU — spec.md §4.3).
// Node pointers live inside the managed entry's own attribute map, as two
// private attributes ("next", "prev") reserved at construction — this is
// the literal meaning of "intrusive" in the glossary: no separate node
// object, no separate map from entry to list position.
package intrusive

import (
	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy"
)

// List is a per-policy-instance intrusive doubly linked list. Each List
// owns a fresh pair of next/prev attribute descriptors, created when the
// List itself is constructed — never shared across List instances, even
// for the same K/V types, so two independently constructed LRU policies
// never alias each other's link pointers on a shared entry type.
type List[K comparable, V any] struct {
	next *attribute.Descriptor[*entry.Entry[K, V]]
	prev *attribute.Descriptor[*entry.Entry[K, V]]

	head *entry.Entry[K, V] // MRU
	tail *entry.Entry[K, V] // LRU
	len  int
}

// New constructs an empty intrusive list and reserves its next/prev
// attributes. name is used only for diagnostics (e.g. "lru", "fifo").
func New[K comparable, V any](name string) *List[K, V] {
	return &List[K, V]{
		next: attribute.New[*entry.Entry[K, V]](name+".next", nil, nil),
		prev: attribute.New[*entry.Entry[K, V]](name+".prev", nil, nil),
	}
}

// Register declares both next/prev as hard dependencies on r: the list
// mutates them on every admission, removal, and move, so the store must
// keep their slot reserved and never let another collaborator reuse it.
func (l *List[K, V]) Register(r policy.Registrar) {
	_ = r.DependOnHard(l.next)
	_ = r.DependOnHard(l.prev)
}

func (l *List[K, V]) nextOf(e *entry.Entry[K, V]) *entry.Entry[K, V] {
	return attribute.Get(e.Attributes(), l.next)
}

func (l *List[K, V]) prevOf(e *entry.Entry[K, V]) *entry.Entry[K, V] {
	return attribute.Get(e.Attributes(), l.prev)
}

func (l *List[K, V]) setNext(e, v *entry.Entry[K, V]) { _ = attribute.Put(e.Attributes(), l.next, v) }
func (l *List[K, V]) setPrev(e, v *entry.Entry[K, V]) { _ = attribute.Put(e.Attributes(), l.prev, v) }

// Len returns the number of linked entries.
func (l *List[K, V]) Len() int { return l.len }

// Front returns the MRU entry, or nil if the list is empty.
func (l *List[K, V]) Front() *entry.Entry[K, V] { return l.head }

// Back returns the LRU entry, or nil if the list is empty.
func (l *List[K, V]) Back() *entry.Entry[K, V] { return l.tail }

// NextOf returns the entry linked after e (towards the tail), or nil at the
// end. Exposed for policies (e.g. LFU) that need to walk the list rather
// than just touch its ends.
func (l *List[K, V]) NextOf(e *entry.Entry[K, V]) *entry.Entry[K, V] { return l.nextOf(e) }

// PrevOf returns the entry linked before e (towards the head), or nil at
// the start.
func (l *List[K, V]) PrevOf(e *entry.Entry[K, V]) *entry.Entry[K, V] { return l.prevOf(e) }

// AddFirst links e at the head (MRU position) in O(1).
func (l *List[K, V]) AddFirst(e *entry.Entry[K, V]) {
	l.setPrev(e, nil)
	l.setNext(e, l.head)
	if l.head != nil {
		l.setPrev(l.head, e)
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
	l.len++
}

// AddLast links e at the tail (LRU position) in O(1).
func (l *List[K, V]) AddLast(e *entry.Entry[K, V]) {
	l.setNext(e, nil)
	l.setPrev(e, l.tail)
	if l.tail != nil {
		l.setNext(l.tail, e)
	}
	l.tail = e
	if l.head == nil {
		l.head = e
	}
	l.len++
}

// Remove unlinks e in O(1). e must currently be linked in l.
func (l *List[K, V]) Remove(e *entry.Entry[K, V]) {
	p, n := l.prevOf(e), l.nextOf(e)
	if p != nil {
		l.setNext(p, n)
	} else {
		l.head = n
	}
	if n != nil {
		l.setPrev(n, p)
	} else {
		l.tail = p
	}
	l.setNext(e, nil)
	l.setPrev(e, nil)
	l.len--
}

// MoveFirst promotes e to the head. e must currently be linked in l.
func (l *List[K, V]) MoveFirst(e *entry.Entry[K, V]) {
	if l.head == e {
		return
	}
	l.Remove(e)
	l.AddFirst(e)
}

// MoveLast demotes e to the tail. e must currently be linked in l.
func (l *List[K, V]) MoveLast(e *entry.Entry[K, V]) {
	if l.tail == e {
		return
	}
	l.Remove(e)
	l.AddLast(e)
}

// RemoveFirst unlinks and returns the MRU entry, or nil if empty.
func (l *List[K, V]) RemoveFirst() *entry.Entry[K, V] {
	if l.head == nil {
		return nil
	}
	e := l.head
	l.Remove(e)
	return e
}

// RemoveLast unlinks and returns the LRU entry, or nil if empty.
func (l *List[K, V]) RemoveLast() *entry.Entry[K, V] {
	if l.tail == nil {
		return nil
	}
	e := l.tail
	l.Remove(e)
	return e
}

// Replace transplants old's list position onto next in O(1), without
// walking the list. old must currently be linked in l; next must not be.
func (l *List[K, V]) Replace(old, next *entry.Entry[K, V]) {
	p, n := l.prevOf(old), l.nextOf(old)
	l.setPrev(next, p)
	l.setNext(next, n)
	if p != nil {
		l.setNext(p, next)
	} else {
		l.head = next
	}
	if n != nil {
		l.setPrev(n, next)
	} else {
		l.tail = next
	}
	l.setNext(old, nil)
	l.setPrev(old, nil)
}

// Clear resets the list to empty. It does not touch any entry's attribute
// map (those entries are being dropped by the store along with it).
func (l *List[K, V]) Clear() {
	l.head, l.tail, l.len = nil, nil, 0
}
