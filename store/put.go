package store

import (
	"fmt"

	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/listener"
)

// Put inserts or updates key→value, running the full put skeleton of
// spec.md §4.5: attribute refresh, cacheability, policy admission, map and
// volume bookkeeping, and a trailing trim. attrs may be nil.
func (s *Store[K, V]) Put(key K, value V, attrs *attribute.Map) (previous, newEntry *entry.Entry[K, V], evicted []*entry.Entry[K, V], err error) {
	return s.putOne(key, value, attrs, false, listener.OpPut)
}

// PutIfAbsent inserts key→value only if key is not already resident.
// If key is already present, previous is returned and newEntry is nil.
func (s *Store[K, V]) PutIfAbsent(key K, value V, attrs *attribute.Map) (previous, newEntry *entry.Entry[K, V], evicted []*entry.Entry[K, V], err error) {
	return s.putOne(key, value, attrs, true, listener.OpPut)
}

// KV is one input to PutAll: a key, value, and optional attrs to merge in.
type KV[K comparable, V any] struct {
	Key   K
	Value V
	Attrs *attribute.Map
}

// PutAll applies the put skeleton once per item, in order, exactly as N
// individual calls to Put would (spec.md §4.5's open question on putAll
// semantics resolves to per-entry listener events and per-entry admission
// decisions). It returns every item's resulting entry (nil where rejected)
// and the aggregate evicted set across all N puts.
func (s *Store[K, V]) PutAll(items []KV[K, V]) (results []*entry.Entry[K, V], evicted []*entry.Entry[K, V], err error) {
	results = make([]*entry.Entry[K, V], 0, len(items))
	for _, it := range items {
		_, newEntry, ev, putErr := s.putOne(it.Key, it.Value, it.Attrs, false, listener.OpPutAll)
		if putErr != nil {
			return results, evicted, putErr
		}
		results = append(results, newEntry)
		evicted = append(evicted, ev...)
	}
	return results, evicted, nil
}

// putOne is the single engine behind Put/PutIfAbsent/PutAll/Replace,
// following spec.md §4.5 steps 1-10 verbatim.
func (s *Store[K, V]) putOne(key K, value V, attrs *attribute.Map, absentOnly bool, op listener.Op) (previous, retained *entry.Entry[K, V], evicted []*entry.Entry[K, V], err error) {
	s.ensureStarted()
	if err = s.checkMutable(); err != nil {
		return nil, nil, nil, err
	}

	s.lst.Before(listener.Before[K]{Op: op, Key: key})

	previous = s.m[key]

	if s.disabled || (absentOnly && previous != nil) {
		s.lst.After(listener.After[K, V]{Op: op, Key: key, Previous: previous})
		return previous, nil, nil, nil
	}

	now := s.now()
	var newAttrs *attribute.Map
	if previous == nil {
		newAttrs, err = s.attrSvc.Create(key, value, attrs, now)
	} else {
		newAttrs, err = s.attrSvc.Update(key, value, attrs, previous.Attributes(), now)
	}
	if err != nil {
		return previous, nil, nil, err
	}

	candidate := entry.New(key, value, newAttrs)

	if !s.cacheable(candidate) {
		s.lst.After(listener.After[K, V]{Op: op, Key: key, Previous: previous, New: previous})
		return previous, previous, nil, nil
	}

	var admitted *entry.Entry[K, V]
	if s.pol == nil {
		admitted = candidate
	} else if previous == nil {
		if !s.pol.Add(candidate) {
			s.lst.After(listener.After[K, V]{Op: op, Key: key, Previous: previous})
			return previous, nil, nil, nil
		}
		admitted = candidate
	} else {
		chosen := s.pol.Replace(previous, candidate)
		if chosen != previous && chosen != candidate {
			s.poison(fmt.Errorf("policy.Replace returned neither argument for key %v", key))
			return previous, nil, nil, ErrPoisoned
		}
		admitted = chosen
	}

	if previous != nil && admitted == previous {
		// Policy kept the old entry; the new write is silently overridden.
		s.lst.After(listener.After[K, V]{Op: op, Key: key, Previous: previous, New: previous})
		return previous, previous, nil, nil
	}

	if previous != nil {
		// admitted == candidate: previous is being replaced. The policy's
		// Replace call above already transferred/dropped its bookkeeping;
		// we only need to fix up the map and volume here.
		s.volume -= s.sizeOf(previous)
		if s.volume < 0 {
			s.volume = 0
		}
	}

	s.m[key] = candidate
	s.volume += s.sizeOf(candidate)

	evicted = s.trim()

	s.lst.After(listener.After[K, V]{Op: op, Key: key, Previous: previous, New: candidate, Evicted: evicted})
	return previous, candidate, evicted, nil
}

// cacheable evaluates the configured IsCacheable predicate, if any,
// recovering a panic into a fatal report per spec.md §7.
func (s *Store[K, V]) cacheable(e *entry.Entry[K, V]) (ok bool) {
	if s.isCacheable == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			s.exceptions.Fatal("store: isCacheable predicate panicked", fmt.Errorf("%v", r))
			ok = false
		}
	}()
	return s.isCacheable(e)
}
