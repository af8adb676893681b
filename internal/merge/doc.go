// Package merge implements the Addressed Merge Core: a generic
// dotted-path writer and recursive deep-merge over an untyped config tree
// (map[string]any), plus the recursive key-lowercasing pre-pass that every
// ingress submodel runs before validation.
//
// This mirrors original_source/dlabel/traefik_conf.py's Model base class:
// __lowercase_property_keys__, setbyaddr, and merge.
package merge
