// Package attrsvc implements the AttributeService collaborator spec.md §6
// describes: it builds and refreshes each entry's attribute.Map around the
// well-known SIZE/HITS/TIMESTAMP slots, and doubles as the policy.Registrar
// a Policy declares its private attribute dependencies against.
package attrsvc

import (
	"github.com/pkg/errors"

	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/policy"
	"github.com/brennanquinn/corecache/wellknown"
)

// ErrDuplicateDependency is returned by DependOnHard/DependOnSoft when the
// same attribute is registered twice against one Service, hard or soft,
// regardless of which combination (spec.md §4.3).
var ErrDuplicateDependency = errors.New("attrsvc: attribute already registered")

// Weigher computes an entry's SIZE (its byte-volume contribution). A nil
// Weigher means every entry has SIZE 1, so volume degenerates into size.
type Weigher[V any] func(v V) int64

// Service implements the spec's AttributeService for one Store: it creates
// and refreshes attribute maps, and tracks which attributes policies have
// claimed.
type Service[K comparable, V any] struct {
	weigher Weigher[V]

	hard map[int]policy.AttributeRef
	soft map[int]policy.AttributeRef
}

// New constructs a Service. weigher may be nil.
func New[K comparable, V any](weigher Weigher[V]) *Service[K, V] {
	return &Service[K, V]{
		weigher: weigher,
		hard:    make(map[int]policy.AttributeRef),
		soft:    make(map[int]policy.AttributeRef),
	}
}

// DependOnHard implements policy.Registrar: attr's slot is reserved and the
// store will keep it current on every write.
func (s *Service[K, V]) DependOnHard(attr policy.AttributeRef) error {
	return s.register(s.hard, attr)
}

// DependOnSoft implements policy.Registrar: attr's slot is read-only or
// best-effort from the store's perspective.
func (s *Service[K, V]) DependOnSoft(attr policy.AttributeRef) error {
	return s.register(s.soft, attr)
}

func (s *Service[K, V]) register(into map[int]policy.AttributeRef, attr policy.AttributeRef) error {
	if _, ok := s.hard[attr.Slot()]; ok {
		return errors.Wrapf(ErrDuplicateDependency, "attribute %q", attr.Name())
	}
	if _, ok := s.soft[attr.Slot()]; ok {
		return errors.Wrapf(ErrDuplicateDependency, "attribute %q", attr.Name())
	}
	into[attr.Slot()] = attr
	return nil
}

// weigh computes SIZE for v.
func (s *Service[K, V]) weigh(v V) int64 {
	if s.weigher == nil {
		return 1
	}
	w := s.weigher(v)
	if w < 0 {
		w = 0
	}
	return w
}

// Create builds the attribute map for a brand-new entry: SIZE from the
// configured Weigher, HITS and TIMESTAMP freshly zeroed/stamped. extra is
// merged in on top (caller-supplied attrs take precedence over SIZE's
// default but never over validity).
func (s *Service[K, V]) Create(_ K, v V, extra *attribute.Map, now int64) (*attribute.Map, error) {
	m := attribute.NewMap()
	if err := attribute.Put(m, wellknown.Size, s.weigh(v)); err != nil {
		return nil, err
	}
	if err := attribute.Put(m, wellknown.Hits, 0); err != nil {
		return nil, err
	}
	if err := attribute.Put(m, wellknown.Timestamp, now); err != nil {
		return nil, err
	}
	attribute.Merge(m, extra)
	return m, nil
}

// Update rebuilds the attribute map for an entry overwriting prevAttrs.
// SIZE is recomputed from the new value; HITS resets to 0 (an update is
// not a read, and starting fresh keeps LFU's bookkeeping meaningful after a
// value change — see DESIGN.md's Open Question decision); TIMESTAMP is
// restamped. extra is merged in afterwards.
func (s *Service[K, V]) Update(k K, v V, extra *attribute.Map, _ *attribute.Map, now int64) (*attribute.Map, error) {
	return s.Create(k, v, extra, now)
}

// Access is called on a read hit: it bumps HITS and restamps TIMESTAMP on
// attrs in place and returns it. This mutates rather than clones
// deliberately — attrs is the same attribute map a replacement policy's
// intrusive next/prev slots live on, and a read hit must not change the
// owning Entry's identity (policy list pointers reference that exact
// Entry). Only value-changing writes (attrsvc.Update) construct a new
// attribute map, because those already go through policy.Replace to
// transplant bookkeeping onto the new Entry.
func (s *Service[K, V]) Access(attrs *attribute.Map, now int64) *attribute.Map {
	hits := attribute.Get(attrs, wellknown.Hits)
	_ = attribute.Put(attrs, wellknown.Hits, hits+1)
	_ = attribute.Put(attrs, wellknown.Timestamp, now)
	return attrs
}

