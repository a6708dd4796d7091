// Package ui serializes the three operator interaction points (§6.3):
// catalog integrity cleanup, search candidate selection, and media-type
// cleanup. At most one prompt is in flight at a time; a non-TTY run
// auto-resolves every prompt to its safe default instead of blocking.
package ui
