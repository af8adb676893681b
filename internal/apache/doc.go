// Package apache renders an ingress config into an Apache VirtualHost
// block via line-level text manipulation, grounded on
// apache_insert2vf, middleware2apache and traefik2apache in
// original_source/dlabel/traefik.py. Unlike internal/nginx this dialect
// has no directive tree at all in the source; splicing raw text lines
// before "</VirtualHost>" is the documented shape, so that's what this
// package does too.
package apache
