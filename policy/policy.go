// Package policy declares the replacement-policy contract (spec.md §4.3):
// admission, replacement, touch, eviction and clear, plus the attribute
// registration protocol a policy uses to reserve the private slots it needs
// on every managed entry (e.g. intrusive next/prev, a hit counter).
//
// Grounded on the teacher's policy/policy.go (Node/Hooks/ShardPolicy/Policy
// split), generalized from "hooks the shard hands to a shard-local policy
// instance" to "an attribute-map-backed Policy the store drives directly" —
// the store has no shard/list of its own to hand over; every policy that
// needs list or counter bookkeeping owns it via attributes on the entries
// themselves, per spec.md §9's intrusive-list redesign note.
package policy

import (
	"github.com/brennanquinn/corecache/entry"
)

// AttributeRef is the minimal identity a registrar needs to detect
// double-registration: any attribute.Descriptor[T] satisfies it without
// the registrar needing to know T.
type AttributeRef interface {
	Slot() int
	Name() string
}

// Registrar receives a policy's attribute dependencies before the owning
// store starts. A hard dependency is one the store must keep up to date on
// every write (e.g. intrusive next/prev); a soft dependency is read-only or
// best-effort bookkeeping the policy maintains itself. Registering the same
// attribute twice (hard or soft, by either kind) on one Registrar fails.
type Registrar interface {
	DependOnHard(attr AttributeRef) error
	DependOnSoft(attr AttributeRef) error
}

// Policy is the replacement-policy contract a Store drives. All methods are
// called with the store's single-mutator guarantee already held (spec.md
// §5): a policy never needs its own locking.
type Policy[K comparable, V any] interface {
	// Register declares this policy's attribute dependencies on r. Called
	// exactly once, when the owning store starts.
	Register(r Registrar)

	// Add is called when a brand new entry (no previous value for its key)
	// is being inserted. Returning false rejects the entry: it is not
	// stored.
	Add(e *entry.Entry[K, V]) bool

	// Replace is called when prev is being overwritten by next for the same
	// key. It returns whichever of prev/next should be retained. Returning
	// neither is a contract violation: the store poisons itself and fails
	// with ErrPoisoned. Returning prev keeps the old value.
	Replace(prev, next *entry.Entry[K, V]) *entry.Entry[K, V]

	// Remove notifies the policy that e is leaving the store for a reason
	// other than an EvictNext call the policy itself serviced (e.g. an
	// explicit Remove/RemoveAll/RemoveValue, or a comparator-driven trim).
	// A store Clear calls Clear instead, and the entry Replace chose not to
	// retain is not reported here.
	Remove(e *entry.Entry[K, V])

	// Touch notifies the policy of a read hit on e.
	Touch(e *entry.Entry[K, V])

	// EvictNext asks the policy to name a victim. Returns nil if the policy
	// holds nothing to evict. Must never name an entry the policy does not
	// currently hold — the store treats that as a fatal contract
	// violation.
	EvictNext() *entry.Entry[K, V]

	// Clear resets all internal bookkeeping. The store has already dropped
	// every entry from its map by the time Clear is called.
	Clear()
}
