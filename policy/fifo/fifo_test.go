package fifo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy/fifo"
)

func TestFIFO_EvictsOldestRegardlessOfTouch(t *testing.T) {
	p := fifo.New[string, int]()
	a := entry.New("a", 1, attribute.NewMap())
	b := entry.New("b", 2, attribute.NewMap())
	c := entry.New("c", 3, attribute.NewMap())

	assert.True(t, p.Add(a))
	assert.True(t, p.Add(b))
	assert.True(t, p.Add(c))

	p.Touch(a) // FIFO ignores touch

	victim := p.EvictNext()
	assert.Equal(t, "a", victim.Key(), "FIFO must evict insertion order, ignoring touch")
}

func TestFIFO_ReplacePreservesPosition(t *testing.T) {
	p := fifo.New[string, int]()
	a := entry.New("a", 1, attribute.NewMap())
	b := entry.New("b", 2, attribute.NewMap())
	p.Add(a)
	p.Add(b)

	updated := entry.New("a", 99, attribute.NewMap())
	retained := p.Replace(a, updated)
	assert.Same(t, updated, retained)

	victim := p.EvictNext()
	assert.Equal(t, "a", victim.Key(), "update must not reset FIFO order")
}
