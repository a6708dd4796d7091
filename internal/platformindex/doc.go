// Package platformindex reads the downstream frontend's read-only
// es_systems.xml document: a systemList of platform definitions (name,
// human-readable full name, ROM path with a %ROMPATH% macro, accepted
// extensions, and a provider platform code). Curateur never writes this
// file.
package platformindex
