// Package listener implements the before/after event channel spec.md §4.7
// describes: every store mutation is bracketed by a Before and an After
// call, fire-and-forget, so a listener's own panic can never corrupt the
// store's invariants.
package listener

import "github.com/brennanquinn/corecache/entry"

// Op identifies which public store operation produced an event.
type Op int

const (
	OpPut Op = iota
	OpReplace
	OpRemove
	OpRemoveAll
	OpClear
	OpPutAll
)

func (o Op) String() string {
	switch o {
	case OpPut:
		return "put"
	case OpReplace:
		return "replace"
	case OpRemove:
		return "remove"
	case OpRemoveAll:
		return "removeAll"
	case OpClear:
		return "clear"
	case OpPutAll:
		return "putAll"
	default:
		return "unknown"
	}
}

// Before is delivered immediately before a mutation is applied. Key is the
// key being operated on (the zero value for whole-store ops like Clear).
type Before[K comparable] struct {
	Op  Op
	Key K
}

// After is delivered once a mutation has fully applied, carrying the
// previous entry (nil if there was none), the newly retained entry (nil if
// the op did not result in one — e.g. a rejected put or a miss-on-remove),
// every entry explicitly removed by this op (Remove/RemoveAll/Clear), and
// every entry evicted as a side effect of trimming after a Put/Replace.
type After[K comparable, V any] struct {
	Op       Op
	Key      K
	Previous *entry.Entry[K, V]
	New      *entry.Entry[K, V]
	Removed  []*entry.Entry[K, V]
	Evicted  []*entry.Entry[K, V]
}

// Listener observes store mutations. Implementations must not assume they
// run on any particular goroutine, and must not mutate anything reachable
// from the entries they are handed — entries are shared with the store.
type Listener[K comparable, V any] interface {
	Before(Before[K])
	After(After[K, V])
}

// Safe wraps a Listener so that a panic inside Before/After is recovered
// and reported to onPanic instead of propagating into the store — the
// contract in spec.md §4.7 that "listener errors must not affect store
// invariants."
type Safe[K comparable, V any] struct {
	Inner   Listener[K, V]
	OnPanic func(recovered any)
}

func (s Safe[K, V]) Before(b Before[K]) {
	defer s.recover()
	s.Inner.Before(b)
}

func (s Safe[K, V]) After(a After[K, V]) {
	defer s.recover()
	s.Inner.After(a)
}

func (s Safe[K, V]) recover() {
	if r := recover(); r != nil && s.OnPanic != nil {
		s.OnPanic(r)
	}
}

// Multi fans a single event out to every listener in order, each wrapped in
// its own recover so one listener's panic cannot stop the others from
// being notified.
type Multi[K comparable, V any] []Listener[K, V]

func (m Multi[K, V]) Before(b Before[K]) {
	for _, l := range m {
		func() {
			defer func() { recover() }()
			l.Before(b)
		}()
	}
}

func (m Multi[K, V]) After(a After[K, V]) {
	for _, l := range m {
		func() {
			defer func() { recover() }()
			l.After(a)
		}()
	}
}
