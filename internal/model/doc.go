// Package model defines the shared domain types for ctrsnap: the exit-code
// taxonomy, the CLI error wrapper, and the container snapshot that the
// Inventory Adapter produces and every downstream component consumes.
//
// Nothing here talks to the engine or a filesystem; it's pure data plus the
// error vocabulary used to translate internal failures into process exit
// codes and log levels.
package model
