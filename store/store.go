// Package store implements the memory store spec.md §4.5 calls "the heart
// of the core": a key→entry map that enforces count and volume budgets,
// orchestrates a pluggable replacement policy on every mutation, and
// drives the trim loop that keeps those budgets satisfied.
package store

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/listener"
	"github.com/brennanquinn/corecache/policy"
	"github.com/brennanquinn/corecache/storeerr"
	"github.com/brennanquinn/corecache/wellknown"
)

// Sentinel errors surfaced per the taxonomy in spec.md §7. Argument and
// contract-violation errors surface to the caller; predicate and listener
// failures are recovered internally and never reach here.
var (
	ErrShutdown       = errors.New("store: already shut down")
	ErrTerminated     = errors.New("store: terminated")
	ErrPoisoned       = errors.New("store: poisoned by a policy contract violation")
	ErrInvalidMaxSize = errors.New("store: maxSize must be zero (unbounded) or positive")
	ErrInvalidMaxVol  = errors.New("store: maxVolume must be zero (unbounded) or positive")
)

// AttributeService is the C1 collaborator a Store is built with: it builds
// and refreshes attribute maps around well-known slots, and doubles as the
// policy.Registrar a Policy declares its dependencies against.
// attrsvc.Service[K,V] satisfies this structurally.
type AttributeService[K comparable, V any] interface {
	Create(k K, v V, extra *attribute.Map, now int64) (*attribute.Map, error)
	Update(k K, v V, extra *attribute.Map, prev *attribute.Map, now int64) (*attribute.Map, error)
	Access(attrs *attribute.Map, now int64) *attribute.Map
	policy.Registrar
}

// IsCacheable evaluates whether a freshly built entry should be admitted at
// all, independent of policy admission. A panic inside it is treated as a
// cacheability-predicate failure: logged fatally via the exception
// service, with the entry treated as not cacheable (spec.md §7).
type IsCacheable[K comparable, V any] func(e *entry.Entry[K, V]) bool

// lifecycle states, in strictly increasing order.
const (
	stateCreated int32 = iota
	stateStarted
	stateShutdown
	stateTerminated
)

// Options configures a Store. Every field except AttributeService is
// optional; zero values pick the documented default.
type Options[K comparable, V any] struct {
	// MaxSize is the entry-count budget. Zero means unbounded.
	MaxSize int
	// MaxVolume is the byte-volume budget (sum of SIZE attributes). Zero
	// means unbounded.
	MaxVolume int64

	// AttributeService builds/refreshes entry attribute maps. Required.
	AttributeService AttributeService[K, V]

	// Policy is the replacement policy consulted on every mutation. Nil
	// means every entry is admitted and trimming falls back to an
	// arbitrary resident key (see evictArbitrary's doc comment).
	Policy policy.Policy[K, V]

	// Exceptions receives fatal/warning reports. Nil defaults to a no-op
	// sink (storeerr.Nop).
	Exceptions storeerr.Service[K, V]

	// Listener observes mutations. Nil defaults to a no-op listener. A
	// panic inside it is recovered and reported through Exceptions.Warning.
	Listener listener.Listener[K, V]

	// IsCacheable additionally gates admission of freshly built entries.
	// Nil admits everything that clears policy admission.
	IsCacheable IsCacheable[K, V]

	// Evictor, if set, takes over trim() with a restricted view exposing
	// TrimToSize/TrimToVolume. Nil uses the default evictNext-driven loop.
	Evictor Evictor[K, V]

	// Disabled, if true, makes every Put a no-op that only ever reports
	// back the current resident entry (spec.md §8 scenario 4).
	Disabled bool

	// Now overrides the clock used for TIMESTAMP stamping. Nil uses
	// time.Now().UnixNano(); tests should supply a deterministic clock.
	Now func() int64
}

// Store is the memory store of spec.md §4.5. It assumes a single active
// mutator at a time (spec.md §5): none of its methods take an internal
// lock. Callers needing concurrent access should serialize calls to a
// Store themselves, e.g. behind a mutex, the same way the spec documents
// as the "Synchronized" variant of the unsynchronized core.
type Store[K comparable, V any] struct {
	m      map[K]*entry.Entry[K, V]
	volume int64
	// maxSize/maxVol hold the configured budget verbatim, 0 meaning
	// unbounded on that axis; overBudget() is the only place that
	// special-cases 0, so every other reader (including a custom
	// Evictor's TrimView) sees back exactly what Options carried in.
	maxSize int
	maxVol  int64

	attrSvc     AttributeService[K, V]
	pol         policy.Policy[K, V]
	exceptions  storeerr.Service[K, V]
	lst         listener.Listener[K, V]
	isCacheable IsCacheable[K, V]
	evictor     Evictor[K, V]
	disabled    bool
	now         func() int64

	state   atomic.Int32
	poisonedErr error
}

// nopListener satisfies listener.Listener[K,V] by doing nothing.
type nopListener[K comparable, V any] struct{}

func (nopListener[K, V]) Before(listener.Before[K])    {}
func (nopListener[K, V]) After(listener.After[K, V]) {}

// New constructs a Store from opt. It does not start the store: the first
// public operation (or an explicit call to Start) does that.
func New[K comparable, V any](opt Options[K, V]) (*Store[K, V], error) {
	if opt.MaxSize < 0 {
		return nil, ErrInvalidMaxSize
	}
	if opt.MaxVolume < 0 {
		return nil, ErrInvalidMaxVol
	}
	if opt.AttributeService == nil {
		return nil, errors.New("store: AttributeService is required")
	}

	exceptions := opt.Exceptions
	if exceptions == nil {
		exceptions = storeerr.Nop[K, V]{}
	}
	lst := opt.Listener
	if lst == nil {
		lst = nopListener[K, V]{}
	} else {
		lst = listener.Safe[K, V]{Inner: lst, OnPanic: func(r any) {
			exceptions.Warning(fmt.Sprintf("store: listener panicked: %v", r))
		}}
	}
	now := opt.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixNano() }
	}

	s := &Store[K, V]{
		m:           make(map[K]*entry.Entry[K, V]),
		maxSize:     opt.MaxSize,
		maxVol:      opt.MaxVolume,
		attrSvc:     opt.AttributeService,
		pol:         opt.Policy,
		exceptions:  exceptions,
		lst:         lst,
		isCacheable: opt.IsCacheable,
		evictor:     opt.Evictor,
		disabled:    opt.Disabled,
		now:         now,
	}
	return s, nil
}

// Start explicitly transitions the store from created to started,
// freezing attribute registration by asking the policy (if any) to
// declare its dependencies against the attribute service. Calling it more
// than once, or relying on the lazy-start behavior of the public ops
// instead, is safe and idempotent.
func (s *Store[K, V]) Start() error {
	if !s.state.CompareAndSwap(stateCreated, stateStarted) {
		return nil
	}
	if s.pol != nil {
		s.pol.Register(s.attrSvc)
	}
	return nil
}

// Shutdown rejects future mutations but keeps Peek/Size/Volume callable.
// Idempotent.
func (s *Store[K, V]) Shutdown() error {
	for {
		cur := s.state.Load()
		if cur >= stateShutdown {
			return nil
		}
		if s.state.CompareAndSwap(cur, stateShutdown) {
			return nil
		}
	}
}

// Terminate finalizes the store after shutdown. Idempotent; it is an error
// to terminate a store that was never shut down.
func (s *Store[K, V]) Terminate() error {
	if !s.state.CompareAndSwap(stateShutdown, stateTerminated) {
		if s.state.Load() == stateTerminated {
			return nil
		}
		return errors.New("store: cannot terminate before shutdown")
	}
	return nil
}

func (s *Store[K, V]) ensureStarted() {
	if s.state.Load() == stateCreated {
		s.Start()
	}
}

// checkMutable reports whether a mutating op may proceed.
func (s *Store[K, V]) checkMutable() error {
	if s.poisonedErr != nil {
		return errors.Wrap(ErrPoisoned, s.poisonedErr.Error())
	}
	switch s.state.Load() {
	case stateShutdown:
		return ErrShutdown
	case stateTerminated:
		return ErrTerminated
	default:
		return nil
	}
}

// poison transitions the store into a poisoned state following a policy
// contract violation (spec.md §7): fatal, requiring restart. Subsequent
// mutating ops fail with ErrPoisoned until a fresh Store is constructed.
func (s *Store[K, V]) poison(cause error) {
	if s.poisonedErr == nil {
		s.poisonedErr = cause
	}
	s.exceptions.Fatal("store: policy contract violation, entering poisoned state", cause)
}

// Size returns the number of resident entries.
func (s *Store[K, V]) Size() int {
	s.ensureStarted()
	return len(s.m)
}

// Volume returns the current sum of SIZE attributes over resident entries.
func (s *Store[K, V]) Volume() int64 {
	s.ensureStarted()
	return s.volume
}

// MaxSize returns the configured entry-count budget, 0 meaning unbounded.
func (s *Store[K, V]) MaxSize() int { return s.maxSize }

// MaxVolume returns the configured byte-volume budget, 0 meaning unbounded.
func (s *Store[K, V]) MaxVolume() int64 { return s.maxVol }

// overBudget reports whether either axis currently exceeds its configured
// budget. A zero budget on an axis means that axis never triggers a trim.
func (s *Store[K, V]) overBudget() bool {
	return (s.maxSize > 0 && len(s.m) > s.maxSize) || (s.maxVol > 0 && s.volume > s.maxVol)
}

// Disabled reports whether the store is in disabled mode.
func (s *Store[K, V]) Disabled() bool { return s.disabled }

func (s *Store[K, V]) sizeOf(e *entry.Entry[K, V]) int64 {
	return attribute.Get(e.Attributes(), wellknown.Size)
}

func (s *Store[K, V]) removeFromMap(e *entry.Entry[K, V]) {
	delete(s.m, e.Key())
	s.volume -= s.sizeOf(e)
	if s.volume < 0 {
		s.volume = 0
	}
}
