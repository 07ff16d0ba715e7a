// Package coalesce deduplicates concurrent loads for the same key so a
// Loader's fn runs at most once per key even when many goroutines call
// loader.Store.GetOrLoad for it simultaneously.
//
// Unlike a plain singleflight (which hands back only the opaque value a
// generic fn produced), Group is specialized to the loader's own result
// shape: it carries the resulting *entry.Entry directly, and every Do call
// reports whether its caller actually ran fn (the leader) or piggy-backed
// on another caller's in-flight load (a follower). The loader package uses
// that distinction to count coalesced waits separately from loads that hit
// the network/database, a statistic a value-agnostic coalescer has no name
// for.
package coalesce

import (
	"context"
	"sync"

	"github.com/brennanquinn/corecache/entry"
)

// Group coalesces concurrent Do calls sharing a key.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[K, V]
}

type call[K comparable, V any] struct {
	done  chan struct{}
	entry *entry.Entry[K, V]
	err   error
}

// Outcome is what Do returns to one caller.
type Outcome[K comparable, V any] struct {
	Entry *entry.Entry[K, V]
	Err   error
	// Leader is true for the single caller per in-flight round that
	// actually executed fn; every other concurrent caller for the same
	// key sees Leader=false and the leader's published Entry/Err.
	Leader bool
}

// Do runs fn once for key; concurrent callers for the same key block on
// the leader's result. Cancelling ctx unblocks only the cancelling
// follower — it does not cancel the leader's fn.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (*entry.Entry[K, V], error)) Outcome[K, V] {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[K, V])
	}
	if c, ok := g.m[key]; ok {
		done := c.done
		g.mu.Unlock()
		select {
		case <-done:
			return Outcome[K, V]{Entry: c.entry, Err: c.err}
		case <-ctx.Done():
			return Outcome[K, V]{Err: ctx.Err()}
		}
	}

	c := &call[K, V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	e, err := fn()

	c.entry, c.err = e, err
	close(c.done)

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return Outcome[K, V]{Entry: e, Err: err, Leader: true}
}
