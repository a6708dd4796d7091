// Package orchestrator drives one platform's scrape end to end: scan
// (C1), identity (C2), catalog load (C3/C11), evaluation (C4), provider
// lookup (C5), throttling (C6), caching (C7), scoring (C8), media (C9),
// merge (C10), and the priority work queue (C12), with the operator
// prompts of package ui surfaced at the points §6.3 names. Run drives
// every selected platform in turn and produces the run-level summary.
package orchestrator
