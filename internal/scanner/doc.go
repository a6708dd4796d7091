// Package scanner walks a platform's ROM root and classifies each entry as
// a standard single-file ROM, an M3U playlist, or a disc subdirectory,
// producing RomEntity values plus conflict reports for ambiguous or
// unreadable entries. It performs no hashing and no network access.
package scanner
