// Package compose reconstructs a docker-compose.yml-shaped document from
// the running containers belonging to one or more compose projects,
// grounded on original_source/dlabel/compose.py::compose. Output
// preserves construction order (the source's sort_keys=False) via
// OrderedMap rather than plain Go maps, whose iteration order is
// meaningless.
package compose
