package intrusive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brennanquinn/corecache/attribute"
	"github.com/brennanquinn/corecache/entry"
	"github.com/brennanquinn/corecache/policy/intrusive"
)

func TestList_AddFirstOrderAndBack(t *testing.T) {
	l := intrusive.New[string, int]("t")
	a := entry.New("a", 1, attribute.NewMap())
	b := entry.New("b", 2, attribute.NewMap())
	c := entry.New("c", 3, attribute.NewMap())

	l.AddFirst(a)
	l.AddFirst(b)
	l.AddFirst(c)

	assert.Equal(t, 3, l.Len())
	assert.Same(t, c, l.Front())
	assert.Same(t, a, l.Back())
}

func TestList_MoveFirstPromotes(t *testing.T) {
	l := intrusive.New[string, int]("t2")
	a := entry.New("a", 1, attribute.NewMap())
	b := entry.New("b", 2, attribute.NewMap())
	c := entry.New("c", 3, attribute.NewMap())
	l.AddFirst(a)
	l.AddFirst(b)
	l.AddFirst(c) // front=c, back=a

	l.MoveFirst(a)
	assert.Same(t, a, l.Front())
	assert.Equal(t, 3, l.Len())
}

func TestList_RemoveFirstLast(t *testing.T) {
	l := intrusive.New[string, int]("t3")
	a := entry.New("a", 1, attribute.NewMap())
	b := entry.New("b", 2, attribute.NewMap())
	l.AddFirst(a)
	l.AddFirst(b) // front=b, back=a

	got := l.RemoveLast()
	assert.Same(t, a, got)
	assert.Equal(t, 1, l.Len())
	assert.Same(t, b, l.Front())
	assert.Same(t, b, l.Back())

	got2 := l.RemoveFirst()
	assert.Same(t, b, got2)
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())
}

func TestList_ReplaceTransplantsPosition(t *testing.T) {
	l := intrusive.New[string, int]("t4")
	a := entry.New("a", 1, attribute.NewMap())
	b := entry.New("b", 2, attribute.NewMap())
	c := entry.New("c", 3, attribute.NewMap())
	l.AddFirst(a)
	l.AddFirst(b)
	l.AddFirst(c) // front=c, back=a

	replacement := entry.New("b", 22, attribute.NewMap())
	l.Replace(b, replacement)

	assert.Same(t, c, l.Front())
	assert.Same(t, a, l.Back())
	assert.Equal(t, 3, l.Len())

	// b's old position now belongs to replacement: removing front (c) and
	// back (a) should leave replacement as the sole remaining element.
	l.RemoveFirst()
	l.RemoveLast()
	assert.Equal(t, 1, l.Len())
	assert.Same(t, replacement, l.Front())
	assert.Same(t, replacement, l.Back())
}

func TestList_Clear(t *testing.T) {
	l := intrusive.New[string, int]("t5")
	l.AddFirst(entry.New("a", 1, attribute.NewMap()))
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())
}
