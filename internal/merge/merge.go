package merge

import (
	"sort"

	"curateur/internal/catalog"
)

// Merge reconciles incoming (a fresh provider-backed entry) against
// existing (the current catalog entry for the same ROM), returning the
// merged entry and a report of what changed. User-owned fields
// (Favorite, PlayCount, LastPlayed, Hidden), DisplayBasename, Path,
// Provenance, and Extra always come from existing: the caller updates
// Provenance separately once it knows the new identity/media hashes.
func Merge(policy Policy, existing, incoming catalog.CatalogEntry) (catalog.CatalogEntry, ChangeReport) {
	var report ChangeReport

	merged := existing
	merged.ProviderID = mergeString("provider_id", existing.ProviderID, incoming.ProviderID, policy, &report)
	merged.Name = mergeString("name", existing.Name, incoming.Name, policy, &report)
	merged.Description = mergeString("desc", existing.Description, incoming.Description, policy, &report)
	merged.ReleaseDate = mergeString("releasedate", existing.ReleaseDate, incoming.ReleaseDate, policy, &report)
	merged.Developer = mergeString("developer", existing.Developer, incoming.Developer, policy, &report)
	merged.Publisher = mergeString("publisher", existing.Publisher, incoming.Publisher, policy, &report)
	merged.Players = mergeString("players", existing.Players, incoming.Players, policy, &report)
	merged.Rating = mergeRating(existing.Rating, incoming.Rating, policy, &report)
	merged.Genres = mergeGenres(existing.Genres, incoming.Genres, policy, &report)
	merged.MediaPaths = mergeMediaPaths(existing.MediaPaths, incoming.MediaPaths, &report)

	sort.Strings(report.Added)
	sort.Strings(report.Modified)
	sort.Strings(report.Removed)
	sort.Strings(report.Unchanged)

	return merged, report
}

func mergeString(field, existingVal, incomingVal string, policy Policy, report *ChangeReport) string {
	if policy == ProviderWins {
		return reconcile(field, existingVal, incomingVal, existingVal == incomingVal, incomingVal == "", report)
	}
	if incomingVal == "" {
		if existingVal != "" {
			report.record(field, changeUnchanged)
		}
		return existingVal
	}
	return reconcile(field, existingVal, incomingVal, existingVal == incomingVal, false, report)
}

// reconcile classifies one field transition and returns the value that
// wins. equal and forceBlank are precomputed since string/float/slice
// equality each need a different comparison.
func reconcile[T any](field string, existingVal, incomingVal T, equal, forceBlank bool, report *ChangeReport) T {
	switch {
	case equal:
		report.record(field, changeUnchanged)
		return existingVal
	case forceBlank:
		report.record(field, changeRemoved)
		return incomingVal
	case isZero(existingVal):
		report.record(field, changeAdded)
		return incomingVal
	default:
		report.record(field, changeModified)
		return incomingVal
	}
}

func isZero(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case *float64:
		return t == nil
	case []string:
		return len(t) == 0
	default:
		return false
	}
}

func mergeRating(existingVal, incomingVal *float64, policy Policy, report *ChangeReport) *float64 {
	equal := ratingsEqual(existingVal, incomingVal)
	if policy == ProviderWins {
		return reconcile("rating", existingVal, incomingVal, equal, incomingVal == nil, report)
	}
	if incomingVal == nil {
		if existingVal != nil {
			report.record("rating", changeUnchanged)
		}
		return existingVal
	}
	return reconcile("rating", existingVal, incomingVal, equal, false, report)
}

func ratingsEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func mergeGenres(existingVal, incomingVal []string, policy Policy, report *ChangeReport) []string {
	equal := genresEqual(existingVal, incomingVal)
	if policy == ProviderWins {
		return reconcile("genre", existingVal, incomingVal, equal, len(incomingVal) == 0, report)
	}
	if len(incomingVal) == 0 {
		if len(existingVal) != 0 {
			report.record("genre", changeUnchanged)
		}
		return existingVal
	}
	return reconcile("genre", existingVal, incomingVal, equal, false, report)
}

func genresEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mergeMediaPaths always takes incoming's entries for types actually
// fetched this run, falling back to existing for any type left
// untouched: §4.10's "append/replace media references to point at the
// files actually downloaded in this run."
func mergeMediaPaths(existingVal, incomingVal map[string]string, report *ChangeReport) map[string]string {
	merged := make(map[string]string, len(existingVal)+len(incomingVal))
	for mediaType, path := range existingVal {
		merged[mediaType] = path
	}
	for mediaType, path := range incomingVal {
		field := "media:" + mediaType
		prior, had := existingVal[mediaType]
		switch {
		case path == "":
			continue
		case !had:
			report.record(field, changeAdded)
		case prior != path:
			report.record(field, changeModified)
		default:
			report.record(field, changeUnchanged)
		}
		merged[mediaType] = path
	}
	return merged
}
