package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/attrsvc"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy"
	"github.com/brennanquinn/corecache/policy/fifo"
	"github.com/brennanquinn/corecache/policy/lru"
	"github.com/brennanquinn/corecache/store"
	"github.com/brennanquinn/corecache/wellknown"
)

func newFIFOStore(t *testing.T, maxSize int) *store.Store[int, string] {
	t.Helper()
	pol := fifo.New[int, string]()
	s, err := store.New[int, string](store.Options[int, string]{
		MaxSize:          maxSize,
		AttributeService: attrsvc.New[int, string](nil),
		Policy:           pol,
	})
	require.NoError(t, err)
	return s
}

func newLRUStore(t *testing.T, maxSize int) *store.Store[int, string] {
	t.Helper()
	pol := lru.New[int, string]()
	s, err := store.New[int, string](store.Options[int, string]{
		MaxSize:          maxSize,
		AttributeService: attrsvc.New[int, string](nil),
		Policy:           pol,
	})
	require.NoError(t, err)
	return s
}

// Scenario 1: capacity by count, FIFO.
func TestPut_CapacityByCountEvictsOldestFIFO(t *testing.T) {
	s := newFIFOStore(t, 3)
	_, _, _, err := s.Put(1, "a", nil)
	require.NoError(t, err)
	_, _, _, err = s.Put(2, "b", nil)
	require.NoError(t, err)
	_, _, _, err = s.Put(3, "c", nil)
	require.NoError(t, err)
	_, _, evicted, err := s.Put(4, "d", nil)
	require.NoError(t, err)

	require.Len(t, evicted, 1)
	assert.Equal(t, 1, evicted[0].Key())
	assert.Equal(t, "a", evicted[0].Value())
	assert.Equal(t, 3, s.Size())

	_, ok := s.Peek(1)
	assert.False(t, ok)
	for _, k := range []int{2, 3, 4} {
		_, ok := s.Peek(k)
		assert.True(t, ok, "key %d should remain", k)
	}
}

// Scenario 2: LRU touch keeps a key alive past its insertion-order turn.
func TestGet_TouchPromotesUnderLRU(t *testing.T) {
	s := newLRUStore(t, 3)
	_, _, _, _ = s.Put(1, "a", nil)
	_, _, _, _ = s.Put(2, "b", nil)
	_, _, _, _ = s.Put(3, "c", nil)

	_, ok := s.Get(1)
	require.True(t, ok)

	_, _, evicted, err := s.Put(4, "d", nil)
	require.NoError(t, err)
	require.Len(t, evicted, 1)
	assert.Equal(t, 2, evicted[0].Key())

	for _, k := range []int{1, 3, 4} {
		_, ok := s.Peek(k)
		assert.True(t, ok, "key %d should remain", k)
	}
}

// Scenario 3: volume cap via SIZE, no count limit.
func TestPut_CapacityByVolumeEvicts(t *testing.T) {
	pol := fifo.New[string, int]()
	weigher := func(v int) int64 { return int64(v) }
	s, err := store.New[string, int](store.Options[string, int]{
		MaxVolume:        10,
		AttributeService: attrsvc.New[string, int](weigher),
		Policy:           pol,
	})
	require.NoError(t, err)

	_, _, _, err = s.Put("a", 4, nil)
	require.NoError(t, err)
	_, _, _, err = s.Put("b", 4, nil)
	require.NoError(t, err)
	_, _, evicted, err := s.Put("c", 4, nil)
	require.NoError(t, err)

	require.Len(t, evicted, 1)
	assert.Equal(t, int64(8), s.Volume())
	assert.Equal(t, 2, s.Size())
}

// Scenario 4: disabled store.
func TestPut_DisabledStoreIsNoOp(t *testing.T) {
	s, err := store.New[int, string](store.Options[int, string]{
		MaxSize:          10,
		AttributeService: attrsvc.New[int, string](nil),
		Disabled:         true,
	})
	require.NoError(t, err)

	prev, newEntry, evicted, err := s.Put(1, "a", nil)
	require.NoError(t, err)
	assert.Nil(t, prev)
	assert.Nil(t, newEntry)
	assert.Empty(t, evicted)

	_, ok := s.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Size())
}

// Scenario 5: replace contract.
func TestReplace_SucceedsOnlyWhenOldMatches(t *testing.T) {
	s := newFIFOStore(t, 10)
	_, _, _, err := s.Put(1, "v", nil)
	require.NoError(t, err)

	wrong := "wrong"
	retained, current, _, err := store.Replace(s, 1, &wrong, "new", nil)
	require.NoError(t, err)
	assert.False(t, retained)
	assert.Equal(t, "v", current.Value())

	old := "v"
	retained, current, _, err = store.Replace(s, 1, &old, "new", nil)
	require.NoError(t, err)
	assert.True(t, retained)
	assert.Equal(t, "new", current.Value())
}

func TestRemove_DeletesResidentKey(t *testing.T) {
	s := newFIFOStore(t, 10)
	_, _, _, _ = s.Put(1, "a", nil)

	removed, ok := s.Remove(1)
	require.True(t, ok)
	assert.Equal(t, "a", removed.Value())

	_, ok = s.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Size())
}

func TestClear_EmptiesStoreAndZeroesVolume(t *testing.T) {
	s := newFIFOStore(t, 10)
	_, _, _, _ = s.Put(1, "a", nil)
	_, _, _, _ = s.Put(2, "b", nil)

	all := s.Clear()
	assert.Len(t, all, 2)
	assert.Equal(t, 0, s.Size())
	assert.Equal(t, int64(0), s.Volume())

	_, ok := s.Peek(1)
	assert.False(t, ok)
}

func TestPut_SameKeyTwiceActsLikeSinglePut(t *testing.T) {
	s := newFIFOStore(t, 10)
	_, _, _, err := s.Put(1, "v1", nil)
	require.NoError(t, err)
	prev, newEntry, _, err := s.Put(1, "v2", nil)
	require.NoError(t, err)

	assert.Equal(t, "v1", prev.Value())
	assert.Equal(t, "v2", newEntry.Value())
	assert.Equal(t, 1, s.Size())
}

func TestTrimToSizeZero_EmptiesStoreViaCustomEvictor(t *testing.T) {
	pol := fifo.New[int, string]()
	s, err := store.New[int, string](store.Options[int, string]{
		MaxSize:          2,
		AttributeService: attrsvc.New[int, string](nil),
		Policy:           pol,
		Evictor:          evictToZeroSize[int, string]{},
	})
	require.NoError(t, err)

	_, _, _, _ = s.Put(1, "a", nil)
	_, _, _, _ = s.Put(2, "b", nil)
	_, _, evicted, err := s.Put(3, "c", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Size())
	assert.Len(t, evicted, 3)
}

type evictToZeroSize[K comparable, V any] struct{}

func (evictToZeroSize[K, V]) Trim(v *store.TrimView[K, V]) {
	v.TrimToSize(0, nil)
}

// recordingEvictor captures what TrimView.MaxSize/MaxVolume reported, so a
// test can assert the unbounded axis is surfaced as 0, not an internal
// sentinel.
type recordingEvictor[K comparable, V any] struct {
	seenMaxSize *int
	seenMaxVol  *int64
}

func (e recordingEvictor[K, V]) Trim(v *store.TrimView[K, V]) {
	*e.seenMaxSize = v.MaxSize()
	*e.seenMaxVol = v.MaxVolume()
}

func TestMaxSizeMaxVolume_ReportZeroForUnboundedAxis(t *testing.T) {
	pol := fifo.New[int, string]()
	var seenMaxSize int
	var seenMaxVol int64
	s, err := store.New[int, string](store.Options[int, string]{
		MaxSize:          1,
		AttributeService: attrsvc.New[int, string](nil),
		Policy:           pol,
		Evictor:          recordingEvictor[int, string]{seenMaxSize: &seenMaxSize, seenMaxVol: &seenMaxVol},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, s.MaxSize())
	assert.Equal(t, int64(0), s.MaxVolume())

	_, _, _, err = s.Put(1, "a", nil)
	require.NoError(t, err)
	_, _, _, err = s.Put(2, "b", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, seenMaxSize, "TrimView.MaxSize must echo the configured budget, not a sentinel")
	assert.Equal(t, int64(0), seenMaxVol, "TrimView.MaxVolume must report 0 for the unbounded axis")
}

func TestGet_DefaultSizeIsOnePerEntry(t *testing.T) {
	s := newFIFOStore(t, 10)
	_, _, _, err := s.Put(1, "a", nil)
	require.NoError(t, err)

	e, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, int64(1), attribute.Get(e.Attributes(), wellknown.Size))
}

func TestGet_TouchBumpsHitsInPlace(t *testing.T) {
	s := newFIFOStore(t, 10)
	_, _, _, err := s.Put(1, "a", nil)
	require.NoError(t, err)

	e1, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, int64(1), attribute.Get(e1.Attributes(), wellknown.Hits))

	e2, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, int64(2), attribute.Get(e2.Attributes(), wellknown.Hits))
}

func TestPutAll_AppliesEachItemInOrderAndAggregatesEvictions(t *testing.T) {
	s := newFIFOStore(t, 2)
	results, evicted, err := s.PutAll([]store.KV[int, string]{
		{Key: 1, Value: "a"},
		{Key: 2, Value: "b"},
		{Key: 3, Value: "c"},
	})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Value())
	assert.Equal(t, "c", results[2].Value())

	require.Len(t, evicted, 1)
	assert.Equal(t, 1, evicted[0].Key())
	assert.Equal(t, 2, s.Size())
}

func TestPutAll_RejectsAbsentOnlyNeverApplyToPutAll(t *testing.T) {
	s := newFIFOStore(t, 10)
	_, _, _, err := s.Put(1, "first", nil)
	require.NoError(t, err)

	results, _, err := s.PutAll([]store.KV[int, string]{{Key: 1, Value: "second"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "second", results[0].Value())
}

func TestRemoveAll_ReturnsOnlyResidentKeysInFoundOrder(t *testing.T) {
	s := newFIFOStore(t, 10)
	_, _, _, _ = s.Put(1, "a", nil)
	_, _, _, _ = s.Put(2, "b", nil)

	removed := s.RemoveAll([]int{2, 99, 1})
	require.Len(t, removed, 2)
	assert.Equal(t, 2, removed[0].Key())
	assert.Equal(t, 1, removed[1].Key())
	assert.Equal(t, 0, s.Size())
}

func TestRemoveValue_OnlyRemovesOnValueMatch(t *testing.T) {
	s := newFIFOStore(t, 10)
	_, _, _, _ = s.Put(1, "a", nil)

	removed, ok := store.RemoveValue[int, string](s, 1, "wrong")
	assert.False(t, ok)
	assert.Nil(t, removed)
	_, ok = s.Peek(1)
	assert.True(t, ok)

	removed, ok = store.RemoveValue[int, string](s, 1, "a")
	assert.True(t, ok)
	assert.Equal(t, "a", removed.Value())
	_, ok = s.Peek(1)
	assert.False(t, ok)
}

// brokenReplacePolicy violates the Policy.Replace contract by returning
// neither argument, which must poison the store per spec.md §7.
type brokenReplacePolicy[K comparable, V any] struct{}

func (brokenReplacePolicy[K, V]) Register(policy.Registrar) {}
func (brokenReplacePolicy[K, V]) Add(*entry.Entry[K, V]) bool { return true }
func (brokenReplacePolicy[K, V]) Replace(prev, next *entry.Entry[K, V]) *entry.Entry[K, V] {
	return nil
}
func (brokenReplacePolicy[K, V]) Remove(*entry.Entry[K, V]) {}
func (brokenReplacePolicy[K, V]) Touch(*entry.Entry[K, V])  {}
func (brokenReplacePolicy[K, V]) EvictNext() *entry.Entry[K, V] { return nil }
func (brokenReplacePolicy[K, V]) Clear()                        {}

func TestPut_PoisonsStoreWhenPolicyReplaceViolatesContract(t *testing.T) {
	s, err := store.New[int, string](store.Options[int, string]{
		MaxSize:          10,
		AttributeService: attrsvc.New[int, string](nil),
		Policy:           brokenReplacePolicy[int, string]{},
	})
	require.NoError(t, err)

	_, _, _, err = s.Put(1, "v1", nil)
	require.NoError(t, err)

	_, _, _, err = s.Put(1, "v2", nil)
	assert.ErrorIs(t, err, store.ErrPoisoned)

	_, _, _, err = s.Put(2, "v3", nil)
	assert.ErrorIs(t, err, store.ErrPoisoned)
}
