package store

import (
	"fmt"
	"math"
	"sort"

	"github.com/brennanquinn/corecache/entry"
)

// Comparator orders two entries for a comparator-driven trim (spec.md
// §4.5.1): trimToSize/trimToVolume evict the prefix of entries sorted
// ascending by Comparator.
type Comparator[K comparable, V any] func(a, b *entry.Entry[K, V]) int

// Evictor lets a caller take over trim() entirely. It may only observe
// current/maximum size and volume and request trimToSize/trimToVolume;
// every other store setter is unreachable through TrimView by
// construction (spec.md §4.5.1).
type Evictor[K comparable, V any] interface {
	Trim(v *TrimView[K, V])
}

// TrimView is the restricted view of a Store an Evictor is handed.
type TrimView[K comparable, V any] struct {
	s       *Store[K, V]
	evicted []*entry.Entry[K, V]
}

func (v *TrimView[K, V]) Size() int     { return len(v.s.m) }
func (v *TrimView[K, V]) Volume() int64 { return v.s.volume }

// MaxSize returns the configured entry-count budget verbatim (0 means no
// budget on this axis) so an Evictor computing a proportional target sees
// the same "unbounded" signal Options.MaxSize carried in.
func (v *TrimView[K, V]) MaxSize() int { return v.s.maxSize }

// MaxVolume returns the configured byte-volume budget verbatim (0 means no
// budget on this axis).
func (v *TrimView[K, V]) MaxVolume() int64 { return v.s.maxVol }

// TrimToSize evicts down to target resident entries. target >= 0 is an
// absolute target; target < 0 means "remove |target| entries" (clamped to
// the current size); math.MinInt means remove all. cmp nil falls back to
// evictNext() repeatedly; a non-nil cmp sorts a snapshot ascending and
// evicts the prefix.
func (v *TrimView[K, V]) TrimToSize(target int, cmp Comparator[K, V]) {
	n := len(v.s.m)
	var count int
	switch {
	case target == math.MinInt:
		count = n
	case target >= 0:
		count = n - target
	default:
		count = -target
	}
	if count < 0 {
		count = 0
	}
	if count > n {
		count = n
	}
	v.evicted = append(v.evicted, v.s.trimCount(count, cmp)...)
}

// TrimToVolume evicts down to a target volume. target >= 0 is an absolute
// target; target < 0 means "reduce volume by |target|"; math.MinInt64
// means reduce to zero. cmp nil falls back to evictNext() repeatedly; a
// non-nil cmp sorts a snapshot ascending and evicts the prefix until the
// target is met.
func (v *TrimView[K, V]) TrimToVolume(target int64, cmp Comparator[K, V]) {
	var absolute int64
	switch {
	case target == math.MinInt64:
		absolute = 0
	case target >= 0:
		absolute = target
	default:
		absolute = v.s.volume + target
	}
	if absolute < 0 {
		absolute = 0
	}
	v.evicted = append(v.evicted, v.s.trimToVolumeTarget(absolute, cmp)...)
}

// trim runs until both budgets are satisfied (spec.md §4.5.1). Without a
// custom evictor, it calls evictNext() (policy-driven, or an arbitrary
// resident key if no policy is installed) until both budgets hold. With a
// custom evictor, it hands over a TrimView once per iteration; if the
// evictor made no progress at all, a warning is logged and one default
// eviction is forced to guarantee liveness.
func (s *Store[K, V]) trim() []*entry.Entry[K, V] {
	var all []*entry.Entry[K, V]
	for s.overBudget() && s.poisonedErr == nil {
		if s.evictor == nil {
			e := s.evictNextDefault()
			if e == nil {
				break
			}
			all = append(all, e)
			continue
		}

		sizeBefore, volBefore := len(s.m), s.volume
		view := &TrimView[K, V]{s: s}
		s.evictor.Trim(view)
		all = append(all, view.evicted...)

		if len(s.m) == sizeBefore && s.volume == volBefore {
			s.exceptions.Warning("store: evictor made no progress, forcing a default eviction to guarantee liveness")
			e := s.evictNextDefault()
			if e == nil {
				break
			}
			all = append(all, e)
		}
	}
	return all
}

// evictNextDefault evicts exactly one entry: from the policy if one is
// installed, otherwise an arbitrary resident key. A policy returning an
// entry the store does not hold, or panicking (e.g.
// policy/unlimited.ErrEvictNextCalled), is a contract violation that
// poisons the store (spec.md §7).
func (s *Store[K, V]) evictNextDefault() (victim *entry.Entry[K, V]) {
	if s.pol == nil {
		return s.evictArbitrary()
	}
	defer func() {
		if r := recover(); r != nil {
			s.poison(fmt.Errorf("policy.EvictNext panicked: %v", r))
			victim = nil
		}
	}()
	e := s.pol.EvictNext()
	if e == nil {
		return nil
	}
	if _, ok := s.m[e.Key()]; !ok {
		s.poison(fmt.Errorf("policy.EvictNext returned a key the store does not hold: %v", e.Key()))
		return nil
	}
	s.removeFromMap(e)
	return e
}

// evictArbitrary is the no-policy trim fallback. It evicts whichever key
// Go's map iteration visits first. Go deliberately randomizes map
// iteration order per process, so this is consistent within one trim call
// (it picks one key and stops) but not reproducible across runs; that
// matches spec.md §9's open question, which only requires the chosen
// order be documented, not deterministic.
func (s *Store[K, V]) evictArbitrary() *entry.Entry[K, V] {
	for _, e := range s.m {
		s.removeFromMap(e)
		return e
	}
	return nil
}

// trimCount removes up to count entries and returns them.
func (s *Store[K, V]) trimCount(count int, cmp Comparator[K, V]) []*entry.Entry[K, V] {
	if count <= 0 {
		return nil
	}
	if cmp == nil {
		out := make([]*entry.Entry[K, V], 0, count)
		for i := 0; i < count; i++ {
			e := s.evictNextDefault()
			if e == nil {
				break
			}
			out = append(out, e)
		}
		return out
	}
	snapshot := s.snapshotSorted(cmp)
	if count > len(snapshot) {
		count = len(snapshot)
	}
	out := make([]*entry.Entry[K, V], 0, count)
	for i := 0; i < count; i++ {
		e := snapshot[i]
		s.removeFromMap(e)
		if s.pol != nil {
			s.pol.Remove(e)
		}
		out = append(out, e)
	}
	return out
}

// trimToVolumeTarget removes entries until volume <= target.
func (s *Store[K, V]) trimToVolumeTarget(target int64, cmp Comparator[K, V]) []*entry.Entry[K, V] {
	var out []*entry.Entry[K, V]
	if cmp == nil {
		for s.volume > target {
			e := s.evictNextDefault()
			if e == nil {
				break
			}
			out = append(out, e)
		}
		return out
	}
	for _, e := range s.snapshotSorted(cmp) {
		if s.volume <= target {
			break
		}
		s.removeFromMap(e)
		if s.pol != nil {
			s.pol.Remove(e)
		}
		out = append(out, e)
	}
	return out
}

func (s *Store[K, V]) snapshotSorted(cmp Comparator[K, V]) []*entry.Entry[K, V] {
	snapshot := make([]*entry.Entry[K, V], 0, len(s.m))
	for _, e := range s.m {
		snapshot = append(snapshot, e)
	}
	sort.Slice(snapshot, func(i, j int) bool { return cmp(snapshot[i], snapshot[j]) < 0 })
	return snapshot
}
