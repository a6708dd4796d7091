package orchestrator

import (
	"sort"
	"time"

	"curateur/internal/catalog"
	"curateur/internal/provider"
)

// assembleCatalogEntry turns a fresh provider.GameInfo into the
// provider-owned half of a CatalogEntry. User-owned fields, Path,
// Provenance, and Extra are left zero: Merge (C10) is responsible for
// carrying those over from the existing entry, this function only ever
// produces the "incoming" side of a merge.
func assembleCatalogEntry(basename string, game provider.GameInfo, regionPrefs, langPrefs []string) catalog.CatalogEntry {
	return catalog.CatalogEntry{
		DisplayBasename: basename,
		ProviderID:      game.ID,
		Name:            pickByPreference(game.Names, regionPrefs),
		Description:     pickByPreference(game.Descriptions, langPrefs),
		ReleaseDate:     normalizeReleaseDate(pickByPreference(game.ReleaseDates, regionPrefs)),
		Developer:       game.Developer,
		Publisher:       game.Publisher,
		Genres:          game.Genres,
		Players:         game.Players,
		Rating:          normalizeRating(game.Rating),
	}
}

// pickByPreference returns the first value found by walking prefs in
// order, falling back to the lexicographically smallest key so the
// result is deterministic when no preference matches (e.g. no declared
// region/language preference at all).
func pickByPreference(values map[string]string, prefs []string) string {
	for _, key := range prefs {
		if v, ok := values[key]; ok && v != "" {
			return v
		}
	}
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return values[keys[0]]
}

// releaseDateLayouts are the ScreenScraper date formats seen in
// practice, tried in order of specificity.
var releaseDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// normalizeReleaseDate converts a ScreenScraper date string into the
// downstream frontend's YYYYMMDDTHHMMSS convention. An unparsable or
// empty value is passed through unchanged rather than dropped, since a
// malformed upstream date is still more informative than nothing.
func normalizeReleaseDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("20060102T000000")
		}
	}
	return raw
}

// normalizeRating rescales ScreenScraper's 0-20 rating onto the
// catalog's 0.0-1.0 scale. A nil input (no rating reported) stays nil;
// merge's "never blank a populated field" rule needs that distinction
// from an explicit zero.
func normalizeRating(rating *float64) *float64 {
	if rating == nil {
		return nil
	}
	v := *rating / 20.0
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}
