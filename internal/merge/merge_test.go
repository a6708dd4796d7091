package merge

import (
	"testing"

	"curateur/internal/catalog"
)

func ratingPtr(v float64) *float64 { return &v }

func TestMergePreserveUserEditsKeepsUserFields(t *testing.T) {
	existing := catalog.CatalogEntry{
		DisplayBasename: "Super Metroid",
		Path:            "./Super Metroid.zip",
		Favorite:        true,
		Hidden:          true,
		Name:            "Super Metroid",
		Developer:       "Nintendo",
	}
	incoming := catalog.CatalogEntry{
		Name:      "Super Metroid (Refreshed)",
		Developer: "Nintendo R&D2",
	}

	merged, report := Merge(PreserveUserEdits, existing, incoming)

	if !merged.Favorite || !merged.Hidden {
		t.Fatalf("user-owned fields must be preserved verbatim: %+v", merged)
	}
	if merged.Name != "Super Metroid (Refreshed)" {
		t.Fatalf("Name = %q, want the refreshed provider value", merged.Name)
	}
	if merged.Developer != "Nintendo R&D2" {
		t.Fatalf("Developer = %q, want the refreshed provider value", merged.Developer)
	}
	if !contains(report.Modified, "name") || !contains(report.Modified, "developer") {
		t.Fatalf("report.Modified = %v, want name and developer", report.Modified)
	}
}

func TestMergeNeverBlanksAPopulatedFieldWithEmptyProviderValue(t *testing.T) {
	existing := catalog.CatalogEntry{Developer: "Nintendo"}
	incoming := catalog.CatalogEntry{Developer: ""}

	merged, report := Merge(PreserveUserEdits, existing, incoming)

	if merged.Developer != "Nintendo" {
		t.Fatalf("Developer = %q, want existing value preserved when provider returns empty", merged.Developer)
	}
	if !contains(report.Unchanged, "developer") {
		t.Fatalf("report.Unchanged = %v, want developer", report.Unchanged)
	}
}

func TestMergeProviderWinsClearsFieldProviderNoLongerReturns(t *testing.T) {
	existing := catalog.CatalogEntry{Developer: "Nintendo"}
	incoming := catalog.CatalogEntry{Developer: ""}

	merged, report := Merge(ProviderWins, existing, incoming)

	if merged.Developer != "" {
		t.Fatalf("Developer = %q, want cleared under ProviderWins", merged.Developer)
	}
	if !contains(report.Removed, "developer") {
		t.Fatalf("report.Removed = %v, want developer", report.Removed)
	}
}

func TestMergeAddsFieldThatWasPreviouslyEmpty(t *testing.T) {
	existing := catalog.CatalogEntry{}
	incoming := catalog.CatalogEntry{Publisher: "Nintendo"}

	merged, report := Merge(PreserveUserEdits, existing, incoming)

	if merged.Publisher != "Nintendo" {
		t.Fatalf("Publisher = %q", merged.Publisher)
	}
	if !contains(report.Added, "publisher") {
		t.Fatalf("report.Added = %v, want publisher", report.Added)
	}
}

func TestMergeUnchangedFieldReportedWhenValuesAreEqual(t *testing.T) {
	existing := catalog.CatalogEntry{Name: "Chrono Trigger"}
	incoming := catalog.CatalogEntry{Name: "Chrono Trigger"}

	_, report := Merge(PreserveUserEdits, existing, incoming)

	if !contains(report.Unchanged, "name") {
		t.Fatalf("report.Unchanged = %v, want name", report.Unchanged)
	}
	if contains(report.Modified, "name") {
		t.Fatalf("identical values should not be reported as modified")
	}
}

func TestMergeRatingHandlesNilGracefully(t *testing.T) {
	existing := catalog.CatalogEntry{Rating: nil}
	incoming := catalog.CatalogEntry{Rating: ratingPtr(0.9)}

	merged, report := Merge(PreserveUserEdits, existing, incoming)

	if merged.Rating == nil || *merged.Rating != 0.9 {
		t.Fatalf("Rating = %v, want 0.9", merged.Rating)
	}
	if !contains(report.Added, "rating") {
		t.Fatalf("report.Added = %v, want rating", report.Added)
	}
}

func TestMergeGenresReplacesWholeSlice(t *testing.T) {
	existing := catalog.CatalogEntry{Genres: []string{"Platform"}}
	incoming := catalog.CatalogEntry{Genres: []string{"Platform", "Adventure"}}

	merged, report := Merge(PreserveUserEdits, existing, incoming)

	if len(merged.Genres) != 2 {
		t.Fatalf("Genres = %v", merged.Genres)
	}
	if !contains(report.Modified, "genre") {
		t.Fatalf("report.Modified = %v, want genre", report.Modified)
	}
}

func TestMergeMediaPathsUnionsAndPrefersIncoming(t *testing.T) {
	existing := catalog.CatalogEntry{MediaPaths: map[string]string{
		"box-2D": "./media/box2dfront/old.jpg",
		"ss":     "./media/screenshots/old.png",
	}}
	incoming := catalog.CatalogEntry{MediaPaths: map[string]string{
		"box-2D": "./media/box2dfront/new.jpg",
	}}

	merged, report := Merge(PreserveUserEdits, existing, incoming)

	if merged.MediaPaths["box-2D"] != "./media/box2dfront/new.jpg" {
		t.Fatalf("box-2D = %q, want the freshly fetched path", merged.MediaPaths["box-2D"])
	}
	if merged.MediaPaths["ss"] != "./media/screenshots/old.png" {
		t.Fatalf("ss = %q, want the untouched existing path preserved", merged.MediaPaths["ss"])
	}
	if !contains(report.Modified, "media:box-2D") {
		t.Fatalf("report.Modified = %v, want media:box-2D", report.Modified)
	}
}

func TestMergePreservesExtraAndProvenanceFromExisting(t *testing.T) {
	existing := catalog.CatalogEntry{
		Extra:      []catalog.RawElement{{Tag: "sortname", Inner: "Metroid, Super"}},
		Provenance: catalog.Provenance{IdentityHash: "abc123"},
	}
	incoming := catalog.CatalogEntry{}

	merged, _ := Merge(PreserveUserEdits, existing, incoming)

	if len(merged.Extra) != 1 || merged.Extra[0].Tag != "sortname" {
		t.Fatalf("Extra = %+v, want preserved verbatim", merged.Extra)
	}
	if merged.Provenance.IdentityHash != "abc123" {
		t.Fatalf("Provenance = %+v, want preserved until caller updates it", merged.Provenance)
	}
}

func contains(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
