// Package cache implements the per-platform response cache: a keyed,
// TTL-bounded, write-through store of successful Provider match responses
// backed by an embedded SQLite database. A cache hit avoids a network call
// entirely; a miss is stored on the caller's next successful fetch.
package cache
