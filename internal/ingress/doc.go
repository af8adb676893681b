// Package ingress defines the typed schema for the ingress config tree
//: routers, services, middlewares, providers, entrypoints,
// tls, and the top-level TraefikConfig that holds them.
//
// Fields the Ingress Aggregator, Rule & Middleware Parser, and the two
// Proxy Dialect Emitters actually read or write are modeled as typed
// struct fields using Value[T] so "set" and "unset" stay distinguishable
// (this package presence-bitset design note). Every other field in the
// original schema (original_source/dlabel/traefik_conf.py has ~25
// submodels; most of their fields are themselves typed dict[str, Any] in
// the source) is preserved verbatim in an Extra map[string]any bag per
// struct, exactly mirroring pydantic's extra="allow" — unknown fields are
// never rejected, only passed through.
package ingress
