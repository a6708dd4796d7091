// Package evaluator decides, for one RomEntity and its existing
// CatalogEntry (if any), which action the scheduler should take: SKIP,
// FULL_SCRAPE, MEDIA_ONLY, or UPDATE. It is a pure function of its
// inputs: no I/O, no network, no mutation.
package evaluator
