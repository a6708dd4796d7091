// Package media selects, downloads, and validates artwork and other
// downloadable assets for a matched game: one asset per enabled type per
// §4.9's region/language partitioning, streamed to a temp file and
// verified before being renamed into place. It also owns the CLEANUP
// tree: moving media for disabled types or orphaned entries aside
// instead of deleting it.
package media
