// Package inventory implements the Inventory Adapter: the abstraction
// over the container engine that every other component consumes. list
// containers, fetch path archives, diff filesystem against image, look
// up volumes, and manage ephemeral containers for the tar-volume
// operation.
//
// The socket-detection and client lifecycle here are adapted from
// docker-cli-style client setup; the capability surface is new, shaped
// by this repo's snapshot/reconstruction domain rather than a worktree
// lifecycle.
package inventory
