// Package attribute implements the typed keyed metadata that every cache
// entry carries: a process-wide Descriptor registry plus a per-entry Map
// that stores values against those descriptors.
//
// A Descriptor is a process-wide value object (equality is by identity, not
// by name) produced by New. Registration assigns the descriptor a dense
// slot index immediately, so a Map can back most entries with a flat slice
// instead of a polymorphic map — the redesign spec.md §9 asks for, adapted
// from the teacher's intrusive next/prev-via-attribute-map idea.
package attribute

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrInvalidValue is returned by Map.Put when a value fails its descriptor's
// validity predicate.
var ErrInvalidValue = errors.New("attribute: value rejected by descriptor validity predicate")

// Descriptor is a typed metadata slot: a name (for diagnostics only), a
// default value returned for entries that never set it, and an optional
// validity predicate. Two descriptors are never equal unless they are the
// same *Descriptor[T] — this is what "process-wide value object, equality
// by identity" means in practice for a typed Go value.
type Descriptor[T any] struct {
	name    string
	slot    int
	def     T
	isValid func(T) bool
}

// registry assigns dense, process-wide slot indices to every descriptor
// created via New, regardless of T. Slots are never reused.
var nextSlot int32 = -1

func allocSlot() int {
	return int(atomic.AddInt32(&nextSlot, 1))
}

// New registers a new attribute Descriptor with the given name and default
// value. isValid may be nil, meaning every value of T is valid.
func New[T any](name string, def T, isValid func(T) bool) *Descriptor[T] {
	return &Descriptor[T]{
		name:    name,
		slot:    allocSlot(),
		def:     def,
		isValid: isValid,
	}
}

// Name returns the descriptor's diagnostic name.
func (d *Descriptor[T]) Name() string { return d.name }

// Default returns the descriptor's default value.
func (d *Descriptor[T]) Default() T { return d.def }

// Slot returns the dense, process-wide slot index assigned at registration.
// Exposed so collaborators (e.g. the intrusive list helper) can pre-size
// their own side tables; ordinary callers should not need it.
func (d *Descriptor[T]) Slot() int { return d.slot }

// Valid reports whether v satisfies the descriptor's validity predicate.
func (d *Descriptor[T]) Valid(v T) bool {
	if d.isValid == nil {
		return true
	}
	return d.isValid(v)
}

// slotCount returns the number of slots allocated so far, process-wide.
func slotCount() int {
	return int(atomic.LoadInt32(&nextSlot)) + 1
}
