// Package unlimited implements the no-op policy: every entry is admitted,
// nothing is ever proposed for eviction. Calling EvictNext on it is a
// contract violation per spec.md §4.4 ("evictNext must not be called ->
// fatal"); it panics so the store's trim loop can recognize and translate
// it into the poisoned-state fatal path (spec.md §7).
package unlimited

import (
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy"
)

// ErrEvictNextCalled is the panic value EvictNext raises. The store's trim
// recovers any panic out of a policy's EvictNext, this one included, and
// treats it as a policy contract violation that poisons the store.
type ErrEvictNextCalled struct{}

func (ErrEvictNextCalled) Error() string {
	return "unlimited: EvictNext must never be called on the no-op policy"
}

type unlimitedPolicy[K comparable, V any] struct{}

// New constructs the unlimited/no-op policy.
func New[K comparable, V any]() policy.Policy[K, V] {
	return unlimitedPolicy[K, V]{}
}

// Register declares no dependencies.
func (unlimitedPolicy[K, V]) Register(policy.Registrar) {}

// Add always admits.
func (unlimitedPolicy[K, V]) Add(*entry.Entry[K, V]) bool { return true }

// Replace always keeps the new value.
func (unlimitedPolicy[K, V]) Replace(_, next *entry.Entry[K, V]) *entry.Entry[K, V] { return next }

// Remove is a no-op: there is no bookkeeping to update.
func (unlimitedPolicy[K, V]) Remove(*entry.Entry[K, V]) {}

// Touch is a no-op.
func (unlimitedPolicy[K, V]) Touch(*entry.Entry[K, V]) {}

// EvictNext panics: an unlimited policy should never be asked to name a
// victim. A store using it must enforce capacity (if any) via a custom
// Evictor instead (spec.md §4.5.1).
func (unlimitedPolicy[K, V]) EvictNext() *entry.Entry[K, V] {
	panic(ErrEvictNextCalled{})
}

// Clear is a no-op.
func (unlimitedPolicy[K, V]) Clear() {}
