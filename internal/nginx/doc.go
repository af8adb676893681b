// Package nginx parses and emits nginx configuration as a small
// directive tree and renders an ingress config into it,
// grounded on the crossplane directive shape used by
// original_source/dlabel/traefik.py (each node is {directive, args,
// block?, comment?, line?}) and on that file's find_server_block,
// middleware2nginx and traefik2nginx. No Go equivalent of the crossplane
// library appears anywhere in the reference corpus, so the parser here
// is hand-rolled rather than imported; it covers exactly the directive
// grammar the generator needs (braces, semicolons, quoted strings,
// comments) and makes no claim to full nginx syntax coverage.
package nginx
