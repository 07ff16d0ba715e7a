package mru_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy/mru"
)

func TestMRU_TouchMarksForEviction(t *testing.T) {
	p := mru.New[string, int]()
	a := entry.New("a", 1, attribute.NewMap())
	b := entry.New("b", 2, attribute.NewMap())
	c := entry.New("c", 3, attribute.NewMap())
	p.Add(a)
	p.Add(b)
	p.Add(c) // c is MRU

	p.Touch(a) // a becomes MRU, first to be sacrificed

	victim := p.EvictNext()
	assert.Equal(t, "a", victim.Key())
}
