package store

import (
	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/listener"
)

// Get returns the entry for key, refreshing its HITS/TIMESTAMP attributes
// and touching the policy (spec.md §4.5's get). The Entry's identity does
// not change on a read hit — attrsvc.Service.Access mutates its attribute
// map in place specifically so a policy's intrusive list pointers (which
// reference this exact Entry) stay valid without a transplant. Reports are
// not emitted to the listener: get is a read, not one of the mutation ops
// §4.7 brackets.
func (s *Store[K, V]) Get(key K) (*entry.Entry[K, V], bool) {
	s.ensureStarted()
	e, ok := s.m[key]
	if !ok {
		return nil, false
	}
	s.attrSvc.Access(e.Attributes(), s.now())
	if s.pol != nil {
		s.pol.Touch(e)
	}
	return e, true
}

// Peek returns the entry for key without refreshing attributes or
// notifying the policy. It remains callable after Shutdown.
func (s *Store[K, V]) Peek(key K) (*entry.Entry[K, V], bool) {
	e, ok := s.m[key]
	return e, ok
}

// Remove deletes key unconditionally and returns the removed entry, if
// any.
func (s *Store[K, V]) Remove(key K) (*entry.Entry[K, V], bool) {
	s.ensureStarted()
	if err := s.checkMutable(); err != nil {
		return nil, false
	}
	s.lst.Before(listener.Before[K]{Op: listener.OpRemove, Key: key})

	e, ok := s.m[key]
	if !ok {
		s.lst.After(listener.After[K, V]{Op: listener.OpRemove, Key: key})
		return nil, false
	}
	s.removeFromMap(e)
	if s.pol != nil {
		s.pol.Remove(e)
	}
	s.lst.After(listener.After[K, V]{Op: listener.OpRemove, Key: key, Previous: e, Removed: []*entry.Entry[K, V]{e}})
	return e, true
}

// RemoveAll deletes every key in keys that is resident and returns the
// removed entries, in the order they were found resident.
func (s *Store[K, V]) RemoveAll(keys []K) []*entry.Entry[K, V] {
	s.ensureStarted()
	if err := s.checkMutable(); err != nil {
		return nil
	}
	var zero K
	s.lst.Before(listener.Before[K]{Op: listener.OpRemoveAll, Key: zero})

	var removed []*entry.Entry[K, V]
	for _, k := range keys {
		if e, ok := s.m[k]; ok {
			s.removeFromMap(e)
			if s.pol != nil {
				s.pol.Remove(e)
			}
			removed = append(removed, e)
		}
	}
	s.lst.After(listener.After[K, V]{Op: listener.OpRemoveAll, Key: zero, Removed: removed})
	return removed
}

// Clear empties the store and returns every entry that was resident.
func (s *Store[K, V]) Clear() []*entry.Entry[K, V] {
	s.ensureStarted()
	if err := s.checkMutable(); err != nil {
		return nil
	}
	var zero K
	s.lst.Before(listener.Before[K]{Op: listener.OpClear, Key: zero})

	all := make([]*entry.Entry[K, V], 0, len(s.m))
	for _, e := range s.m {
		all = append(all, e)
	}
	s.m = make(map[K]*entry.Entry[K, V])
	s.volume = 0
	if s.pol != nil {
		s.pol.Clear()
	}
	s.lst.After(listener.After[K, V]{Op: listener.OpClear, Key: zero, Removed: all})
	return all
}

// Replace performs the atomic compare-and-swap of spec.md §4.5: if old is
// non-nil, the swap only takes effect when the resident value equals *old
// (V must be comparable for this comparison, hence the free function form
// rather than a method — Go methods cannot add type parameters beyond
// their receiver's). If key is not resident at all, Replace reports no
// match regardless of old.
func Replace[K comparable, V comparable](s *Store[K, V], key K, old *V, newValue V, attrs *attribute.Map) (retained bool, current *entry.Entry[K, V], evicted []*entry.Entry[K, V], err error) {
	s.ensureStarted()
	if err = s.checkMutable(); err != nil {
		return false, nil, nil, err
	}
	prev, ok := s.m[key]
	if !ok {
		return false, nil, nil, nil
	}
	if old != nil && prev.Value() != *old {
		return false, prev, nil, nil
	}
	_, newEntry, ev, putErr := s.putOne(key, newValue, attrs, false, listener.OpReplace)
	if putErr != nil {
		return false, prev, nil, putErr
	}
	return true, newEntry, ev, nil
}

// RemoveValue removes key only if its current value equals value,
// returning the removed entry on success. V must be comparable, hence the
// free function form.
func RemoveValue[K comparable, V comparable](s *Store[K, V], key K, value V) (*entry.Entry[K, V], bool) {
	s.ensureStarted()
	if err := s.checkMutable(); err != nil {
		return nil, false
	}
	s.lst.Before(listener.Before[K]{Op: listener.OpRemove, Key: key})

	e, ok := s.m[key]
	if !ok || e.Value() != value {
		s.lst.After(listener.After[K, V]{Op: listener.OpRemove, Key: key})
		return nil, false
	}
	s.removeFromMap(e)
	if s.pol != nil {
		s.pol.Remove(e)
	}
	s.lst.After(listener.After[K, V]{Op: listener.OpRemove, Key: key, Previous: e, Removed: []*entry.Entry[K, V]{e}})
	return e, true
}
