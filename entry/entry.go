// Package entry defines the cache's value object: an immutable
// {key, value, attributes} triple. Grounded on the teacher's cache/node.go,
// which played the same role as an intrusive list element with a key/value
// pair; here the node is replaced by the spec's Entry plus a policy-owned
// attribute.Map for intrusive state, so the same type serves both storage
// and policy bookkeeping without a separate node type.
package entry

import "github.com/brennanquinn/corecache/attribute"

// Entry is a value object: key, value, and an attribute map. It is never
// mutated after construction — a logical "update" produces a new Entry, and
// the store discards the old one. This matches the teacher's node in spirit
// (cheap, flat, no virtual dispatch) but drops in-place mutation so a
// policy.Policy's Replace can transplant attribute slots atomically without
// ever observing a half-updated Entry.
type Entry[K comparable, V any] struct {
	key   K
	value V
	attrs *attribute.Map
}

// New constructs an Entry. attrs may be nil, in which case attribute.Empty()
// is used (the spec requires an immutable empty map whenever the caller
// supplies none).
func New[K comparable, V any](key K, value V, attrs *attribute.Map) *Entry[K, V] {
	if attrs == nil {
		attrs = attribute.Empty()
	}
	return &Entry[K, V]{key: key, value: value, attrs: attrs}
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K { return e.key }

// Value returns the entry's value.
func (e *Entry[K, V]) Value() V { return e.value }

// Attributes returns the entry's attribute map. The returned map must be
// treated as read-only by anyone other than the entry's owning store/policy
// pair — see attribute.Map's immutability contract for the shared empty
// instance, and Entry's own immutability for populated maps.
func (e *Entry[K, V]) Attributes() *attribute.Map { return e.attrs }

// Get reads attribute d off e, or d's default if unset. Exists because Go
// methods cannot carry their own type parameters.
func Get[K comparable, V any, T any](e *Entry[K, V], d *attribute.Descriptor[T]) T {
	return attribute.Get(e.Attributes(), d)
}

// Equal follows the standard key-value-pair convention: two entries are
// equal iff their keys and values are equal. Attribute contents never
// participate in equality — two otherwise-identical entries with different
// policy bookkeeping (e.g. different recency) are still the "same" entry.
func Equal[K comparable, V comparable](a, b *Entry[K, V]) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.key == b.key && a.value == b.value
}
