// Package proxyrule translates the ingress model's rule strings and
// middleware chains into the dialect-neutral shapes internal/nginx and
// internal/apache both render from, grounded on
// rule2locationkey, middleware2nginx and middleware2apache in
// original_source/dlabel/traefik.py. Those two python functions share
// nearly all of their accumulation logic and differ only in how the
// result is rendered; this package keeps the shared half and lets each
// dialect package own only its own rendering.
package proxyrule
