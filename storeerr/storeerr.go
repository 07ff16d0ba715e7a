// Package storeerr implements the ExceptionService collaborator spec.md §6
// describes: the store's hook for reporting cacheability-predicate panics,
// listener panics, and loader failures without those failures unwinding the
// calling goroutine itself.
package storeerr

import (
	"github.com/rs/zerolog"

	"github.com/brennanquinn/corecache/attribute"
)

// Service is the exception-handling collaborator a Store is built with.
// Fatal and Warning are pure notification: the store itself decides what a
// fatal report does to its lifecycle state (see store.Store's poisoned
// flag). LoadFailed additionally gets to decide the outcome of a failed
// load — return a substitute value, or propagate cause (possibly wrapped).
type Service[K comparable, V any] interface {
	Fatal(msg string, cause error)
	Warning(msg string)
	LoadFailed(cause error, key K, attrs *attribute.Map) (V, error)
}

// Zerolog logs fatal/warning reports through a zerolog.Logger and always
// propagates load failures (LoadFailed never fabricates a substitute
// value) — matching the teacher's habit of a single structured sink for
// every operational log line (cache/doc.go's logging conventions).
type Zerolog[K comparable, V any] struct {
	Log zerolog.Logger
}

// NewZerolog builds a Zerolog exception service around log.
func NewZerolog[K comparable, V any](log zerolog.Logger) Zerolog[K, V] {
	return Zerolog[K, V]{Log: log}
}

func (z Zerolog[K, V]) Fatal(msg string, cause error) {
	z.Log.Error().Err(cause).Msg(msg)
}

func (z Zerolog[K, V]) Warning(msg string) {
	z.Log.Warn().Msg(msg)
}

func (z Zerolog[K, V]) LoadFailed(cause error, key K, _ *attribute.Map) (V, error) {
	var zero V
	z.Log.Warn().Err(cause).Interface("key", key).Msg("loader failed")
	return zero, cause
}

// Nop discards every report and always propagates load failures. Useful in
// tests and benchmarks that don't want log noise.
type Nop[K comparable, V any] struct{}

func (Nop[K, V]) Fatal(string, error) {}
func (Nop[K, V]) Warning(string)      {}
func (Nop[K, V]) LoadFailed(cause error, _ K, _ *attribute.Map) (V, error) {
	var zero V
	return zero, cause
}
