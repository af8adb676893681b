// Package aggregator implements the Ingress Aggregator: walks
// every inventoried container, extracts from each source (file, env, args,
// labels) into untyped address/value trees, then merges with fixed
// precedence (from_conf, from_envs, from_args, from_label) before handing
// the result to internal/ingress for typed decoding.
//
// Grounded on traefik_dump / traefik_container_config / traefik_label_config
// in original_source/dlabel/traefik.py.
package aggregator
