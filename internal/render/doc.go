// Package render serializes an aggregated or reconstructed document in one
// of three output formats (YAML default, JSON, TOML), all presence-omitting
// by construction since callers always hand render a
// map[string]any already filtered to set fields (internal/ingress's
// CanonicalMap, internal/compose's OrderedMap-backed Document).
package render
