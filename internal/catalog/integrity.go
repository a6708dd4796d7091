package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// IntegrityResult is the outcome of comparing existing catalog entries
// against what the scanner actually found on disk this run.
type IntegrityResult struct {
	Ratio        float64
	TotalEntries int
	MissingBasenames []string // in the catalog, but no longer on disk
}

// Passed reports whether the presence ratio meets the configured
// threshold. An empty catalog always passes: there is nothing to drift.
func (r IntegrityResult) Passed(threshold float64) bool {
	if r.TotalEntries == 0 {
		return true
	}
	return r.Ratio >= threshold
}

// CheckIntegrity computes the presence ratio: how many of the existing
// catalog's entries still correspond to a ROM the scanner found this
// run. scannedBasenames is the set of display basenames produced by the
// inventory scan.
func CheckIntegrity(existing map[string]CatalogEntry, scannedBasenames map[string]bool) IntegrityResult {
	total := len(existing)
	if total == 0 {
		return IntegrityResult{Ratio: 1.0}
	}

	var missing []string
	for basename := range existing {
		if !scannedBasenames[basename] {
			missing = append(missing, basename)
		}
	}

	present := total - len(missing)
	return IntegrityResult{
		Ratio:            float64(present) / float64(total),
		TotalEntries:     total,
		MissingBasenames: missing,
	}
}

// Cleanup removes the given basenames from the catalog and moves any
// media files already on disk for them into the CLEANUP tree, never
// deleting anything. It returns the surviving entries/provenance plus a
// count of media files moved.
func Cleanup(log *slog.Logger, system, mediaRoot string, entries map[string]CatalogEntry, provenance map[string]Provenance, missingBasenames []string) (map[string]CatalogEntry, map[string]Provenance, int, error) {
	survivingEntries := make(map[string]CatalogEntry, len(entries))
	for k, v := range entries {
		survivingEntries[k] = v
	}
	survivingProvenance := make(map[string]Provenance, len(provenance))
	for k, v := range provenance {
		survivingProvenance[k] = v
	}

	moved := 0
	systemMediaDir := filepath.Join(mediaRoot, system)
	for _, basename := range missingBasenames {
		delete(survivingEntries, basename)
		delete(survivingProvenance, basename)

		n, err := moveOrphanedMedia(systemMediaDir, filepath.Join(mediaRoot, "CLEANUP", system), basename)
		if err != nil {
			return nil, nil, moved, fmt.Errorf("move orphaned media for %s: %w", basename, err)
		}
		moved += n
	}

	if log != nil {
		log.Info("catalog cleanup complete",
			slog.String("platform", system),
			slog.Int("removed_entries", len(missingBasenames)),
			slog.Int("moved_media_files", moved),
		)
	}
	return survivingEntries, survivingProvenance, moved, nil
}

// moveOrphanedMedia moves every "<basename>.*" file found in any
// type-directory under systemMediaDir into the matching type-directory
// under cleanupRoot. Move, never delete.
func moveOrphanedMedia(systemMediaDir, cleanupRoot, basename string) (int, error) {
	typeDirs, err := os.ReadDir(systemMediaDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	moved := 0
	for _, typeDir := range typeDirs {
		if !typeDir.IsDir() {
			continue
		}
		srcDir := filepath.Join(systemMediaDir, typeDir.Name())
		matches, err := filepath.Glob(filepath.Join(srcDir, basename+".*"))
		if err != nil {
			return moved, err
		}
		if len(matches) == 0 {
			continue
		}

		dstDir := filepath.Join(cleanupRoot, typeDir.Name())
		if err := os.MkdirAll(dstDir, 0o755); err != nil {
			return moved, err
		}
		for _, src := range matches {
			dst := filepath.Join(dstDir, filepath.Base(src))
			if err := os.Rename(src, dst); err != nil {
				return moved, fmt.Errorf("move %s: %w", src, err)
			}
			moved++
		}
	}
	return moved, nil
}
