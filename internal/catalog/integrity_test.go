package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckIntegrityEmptyCatalogAlwaysPasses(t *testing.T) {
	result := CheckIntegrity(map[string]CatalogEntry{}, map[string]bool{"A": true})
	if !result.Passed(0.95) {
		t.Fatalf("empty catalog should always pass")
	}
}

func TestCheckIntegrityComputesPresenceRatio(t *testing.T) {
	existing := map[string]CatalogEntry{
		"A": {DisplayBasename: "A"},
		"B": {DisplayBasename: "B"},
		"C": {DisplayBasename: "C"},
		"D": {DisplayBasename: "D"},
	}
	scanned := map[string]bool{"A": true, "B": true, "C": true}

	result := CheckIntegrity(existing, scanned)
	if result.TotalEntries != 4 {
		t.Fatalf("TotalEntries = %d, want 4", result.TotalEntries)
	}
	if result.Ratio != 0.75 {
		t.Fatalf("Ratio = %v, want 0.75", result.Ratio)
	}
	if len(result.MissingBasenames) != 1 || result.MissingBasenames[0] != "D" {
		t.Fatalf("MissingBasenames = %v, want [D]", result.MissingBasenames)
	}
	if result.Passed(0.95) {
		t.Fatalf("0.75 ratio should fail a 0.95 threshold")
	}
	if !result.Passed(0.5) {
		t.Fatalf("0.75 ratio should pass a 0.5 threshold")
	}
}

func TestCheckIntegrityExactlyAtThresholdPasses(t *testing.T) {
	existing := map[string]CatalogEntry{"A": {}, "B": {}}
	scanned := map[string]bool{"A": true}
	result := CheckIntegrity(existing, scanned)
	if !result.Passed(0.5) {
		t.Fatalf("ratio exactly at threshold must pass")
	}
}

func TestCleanupMovesOrphanedMediaNeverDeletes(t *testing.T) {
	mediaRoot := t.TempDir()
	coverDir := filepath.Join(mediaRoot, "nes", "covers")
	if err := os.MkdirAll(coverDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	orphanFile := filepath.Join(coverDir, "Orphan Game.jpg")
	if err := os.WriteFile(orphanFile, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatalf("write orphan media: %v", err)
	}

	entries := map[string]CatalogEntry{
		"Orphan Game": {DisplayBasename: "Orphan Game"},
		"Kept Game":   {DisplayBasename: "Kept Game"},
	}
	provenance := map[string]Provenance{
		"Orphan Game": {RecordID: "1"},
		"Kept Game":   {RecordID: "2"},
	}

	survivingEntries, survivingProvenance, moved, err := Cleanup(nil, "nes", mediaRoot, entries, provenance, []string{"Orphan Game"})
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if moved != 1 {
		t.Fatalf("moved = %d, want 1", moved)
	}
	if _, ok := survivingEntries["Orphan Game"]; ok {
		t.Fatalf("orphan entry should have been removed from the surviving set")
	}
	if _, ok := survivingProvenance["Orphan Game"]; ok {
		t.Fatalf("orphan provenance should have been removed")
	}
	if _, ok := survivingEntries["Kept Game"]; !ok {
		t.Fatalf("kept entry should remain")
	}

	if _, err := os.Stat(orphanFile); !os.IsNotExist(err) {
		t.Fatalf("orphan file should no longer exist at its original path")
	}
	cleanupFile := filepath.Join(mediaRoot, "CLEANUP", "nes", "covers", "Orphan Game.jpg")
	if _, err := os.Stat(cleanupFile); err != nil {
		t.Fatalf("expected orphan file moved to CLEANUP tree: %v", err)
	}
}

func TestCleanupWithNoMediaDirectoryIsNotAnError(t *testing.T) {
	mediaRoot := t.TempDir()
	entries := map[string]CatalogEntry{"Ghost": {DisplayBasename: "Ghost"}}
	provenance := map[string]Provenance{"Ghost": {RecordID: "1"}}

	_, _, moved, err := Cleanup(nil, "nes", mediaRoot, entries, provenance, []string{"Ghost"})
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if moved != 0 {
		t.Fatalf("moved = %d, want 0", moved)
	}
}
