package storeerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brennanquinn/corecache/storeerr"
)

func TestNop_LoadFailedPropagatesCause(t *testing.T) {
	n := storeerr.Nop[string, int]{}
	cause := errors.New("boom")
	v, err := n.LoadFailed(cause, "k", nil)
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, v)
}

func TestNop_FatalAndWarningDoNotPanic(t *testing.T) {
	n := storeerr.Nop[string, int]{}
	assert.NotPanics(t, func() {
		n.Fatal("msg", errors.New("cause"))
		n.Warning("msg")
	})
}
