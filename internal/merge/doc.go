// Package merge combines a freshly scraped provider record with a
// platform's existing catalog entry: user-owned fields are preserved,
// provider-owned fields are replaced (never blanked by an empty
// provider value), and unknown elements ride through untouched. It
// reports what changed so the run summary can show an audit trail.
package merge
