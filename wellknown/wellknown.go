// Package wellknown declares the attribute descriptors the store itself
// depends on (spec.md §3, "Well-known attributes used by the core"). They
// are ordinary attribute.Descriptor values — nothing about them is special
// to the attribute package — but because the store and every policy need to
// agree on the *same* descriptor identity, they live in one shared package
// rather than being redeclared per caller.
package wellknown

import "github.com/brennanquinn/corecache/attribute"

// Size is the byte-volume contribution of an entry. The descriptor's own
// default is 0; attrsvc.Service sets SIZE on every entry it builds (1 when
// no Weigher is configured), so a store with no Weigher degenerates to
// plain count-based capacity (volume becomes an alias for size).
var Size = attribute.NewLong("size", func(v int64) bool { return v >= 0 })

// Hits counts read hits observed by AttributeService.Access.
var Hits = attribute.NewLong("hits", nil)

// Cost is an optional, caller-supplied floating weight (e.g. for
// cost-aware admission); the core never reads it itself.
var Cost = attribute.NewDouble("cost", nil)

// Timestamp is the UnixNano time of the entry's last create/update/access,
// refreshed by the default AttributeService. Exposed as a building block
// for a caller-supplied isCacheable predicate or custom evictor that wants
// to implement TTL-like behavior — the core itself never expires entries
// by time (see SPEC_FULL.md, "Per-key TTL").
var Timestamp = attribute.NewLong("timestamp", nil)
