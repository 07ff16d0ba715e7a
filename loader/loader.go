// Package loader implements the read-through value loader spec.md §4.6
// describes (C6): on a miss, GetOrLoad invokes a caller-supplied LoadFunc
// synchronously, coalescing concurrent loads for the same key, and inserts
// a successful result through the store's normal put skeleton so it gets
// the same admission/trim treatment as any other write.
package loader

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/internal/coalesce"
	"github.com/brennanquinn/corecache/store"
	"github.com/brennanquinn/corecache/storeerr"
)

// ErrNoLoader is returned by GetOrLoad when the Store was built without a
// LoadFunc.
var ErrNoLoader = errors.New("loader: no LoadFunc configured")

// ErrNotFound is returned by GetOrLoad when LoadFunc reports the key does
// not exist (found=false, err=nil) — the spec's "load returns null".
var ErrNotFound = errors.New("loader: key not found by loader")

// LoadFunc produces a value for key on a miss. found=false with err=nil
// means "this key does not exist" (spec.md §4.6's load→null). A non-nil
// err is routed through the store's ExceptionService.LoadFailed hook,
// which may recover with a substitute value or propagate.
type LoadFunc[K comparable, V any] func(ctx context.Context, key K, attrs *attribute.Map) (value V, extra *attribute.Map, found bool, err error)

// Store wraps a *store.Store with read-through loading. Unlike the bare
// core (spec.md §5's single-mutator contract), Store serializes every
// access to the wrapped core itself with an internal mutex: GetOrLoad is
// meant to be called concurrently by many requesters racing for the same
// key, and the coalescing group only dedupes the LoadFunc invocation, not
// the surrounding Get/Put calls against the unsynchronized core.
type Store[K comparable, V any] struct {
	mu             sync.Mutex
	core           *store.Store[K, V]
	load           LoadFunc[K, V]
	exceptions     storeerr.Service[K, V]
	sf             coalesce.Group[K, V]
	coalescedWaits atomic.Int64
}

// New wraps s with read-through loading via load. exceptions receives
// load-failure reports; nil defaults to storeerr.Nop (silent propagation).
func New[K comparable, V any](s *store.Store[K, V], load LoadFunc[K, V], exceptions storeerr.Service[K, V]) *Store[K, V] {
	if exceptions == nil {
		exceptions = storeerr.Nop[K, V]{}
	}
	return &Store[K, V]{core: s, load: load, exceptions: exceptions}
}

// GetOrLoad returns the entry for key, loading it via LoadFunc on a miss.
// Concurrent GetOrLoad calls for the same key share one LoadFunc
// invocation and one insert (spec.md §4.6).
func (l *Store[K, V]) GetOrLoad(ctx context.Context, key K, attrs *attribute.Map) (*entry.Entry[K, V], error) {
	if e, ok := l.lockedGet(key); ok {
		return e, nil
	}
	if l.load == nil {
		return nil, ErrNoLoader
	}

	out := l.sf.Do(ctx, key, func() (*entry.Entry[K, V], error) {
		// Re-check: a racing leader for an earlier, now-finished call may
		// already have inserted key before this goroutine became the
		// leader for a fresh coalescing round.
		if e, ok := l.lockedGet(key); ok {
			return e, nil
		}

		value, extra, found, loadErr := l.load(ctx, key, attrs)
		if loadErr != nil {
			substitute, hookErr := l.exceptions.LoadFailed(loadErr, key, attrs)
			if hookErr != nil {
				return nil, hookErr
			}
			value, extra, found = substitute, nil, true
		}
		if !found {
			return nil, ErrNotFound
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		if _, _, _, putErr := l.core.Put(key, value, extra); putErr != nil {
			return nil, putErr
		}
		e, _ := l.core.Peek(key)
		return e, nil
	})
	if !out.Leader {
		l.coalescedWaits.Add(1)
	}
	return out.Entry, out.Err
}

// CoalescedWaits reports how many GetOrLoad calls were satisfied by
// piggy-backing on another caller's in-flight load rather than running
// LoadFunc themselves.
func (l *Store[K, V]) CoalescedWaits() int64 { return l.coalescedWaits.Load() }

func (l *Store[K, V]) lockedGet(key K) (*entry.Entry[K, V], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.core.Get(key)
}

// Unwrap returns the wrapped core store for callers that need direct
// access (size/volume reporting, lifecycle control). Direct mutating calls
// against the returned Store bypass this wrapper's mutex and reintroduce
// the single-mutator contract's caller-must-serialize requirement.
func (l *Store[K, V]) Unwrap() *store.Store[K, V] { return l.core }
