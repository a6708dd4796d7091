// Package catalog owns the per-platform gamelist: parsing the existing
// XML document with unknown-element round-trip fidelity, looking up
// entries by display basename, and atomically committing a merged
// document plus its provenance sidecar. It also runs the pre-scrape
// integrity check that detects a gamelist drifting away from the ROMs
// actually on disk.
package catalog
