// Package imagedelta builds a Dockerfile plus added/modified tarballs from
// a running container's filesystem diff, grounded on
// original_source/dlabel/dockerfile.py::get_dockerfile and util.py's
// modebits/special_modes. Archive streaming mirrors api.py's get_archive
// chunked-flush generator and hectolitro-yeet/pkg/targz's reader shape.
package imagedelta
