// Package monitor implements the reverse-proxy supervisor loop: BOOTING,
// TESTING, RUNNING, REGENERATING, RELOADING, SHUTDOWN, driven by a fixed
// poll interval plus fsnotify-triggered early wake on provider-file
// changes. No original_source/ file implements this loop directly; the
// state machine is reconstructed from the traefik_monitor behavior
// description this package's callers target.
package monitor
