// Package scheduler runs a platform's work items through a bounded
// worker pool pulled from a single shared priority queue: HIGH before
// NORMAL before LOW, FIFO within a priority. Failed items escalate to
// HIGH priority and retry up to a configured bound, after which they
// land on a failed list rather than blocking the run; a fatal error
// from any worker cancels the whole pool.
package scheduler
