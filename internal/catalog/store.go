package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Store is the in-memory view of one platform's catalog: the parsed
// gamelist entries plus the provenance index, both keyed by display
// basename. It is read once per run and committed once per run; it
// does not watch the filesystem.
type Store struct {
	log *slog.Logger

	gamelistPath   string
	provenancePath string

	provider   ProviderInfo
	entries    map[string]CatalogEntry
	provenance map[string]Provenance
}

// Paths bundles the on-disk locations for one platform's catalog.
type Paths struct {
	GamelistPath   string
	ProvenancePath string
}

// Open loads the existing gamelist and provenance sidecar for a
// platform. Both are tolerant of absence (fresh platform) and of
// individual malformed records (skipped with a warning).
func Open(log *slog.Logger, system string, paths Paths) (*Store, error) {
	provider, entries, err := ParseGamelist(log, paths.GamelistPath)
	if err != nil {
		return nil, err
	}
	if provider.System == "" {
		provider = NewProviderInfo(system)
	}

	provenance, err := LoadProvenance(paths.ProvenancePath)
	if err != nil {
		return nil, err
	}

	byBasename := make(map[string]CatalogEntry, len(entries))
	for _, e := range entries {
		byBasename[e.DisplayBasename] = e
	}

	return &Store{
		log:            log,
		gamelistPath:   paths.GamelistPath,
		provenancePath: paths.ProvenancePath,
		provider:       provider,
		entries:        byBasename,
		provenance:     provenance,
	}, nil
}

// Lookup returns the existing CatalogEntry for a display basename, if
// any.
func (s *Store) Lookup(basename string) (CatalogEntry, bool) {
	e, ok := s.entries[basename]
	return e, ok
}

// LookupProvenance returns the existing Provenance record for a display
// basename, if any.
func (s *Store) LookupProvenance(basename string) (Provenance, bool) {
	p, ok := s.provenance[basename]
	return p, ok
}

// Basenames returns every basename currently in the provenance index,
// sorted.
func (s *Store) Basenames() []string {
	return sortedBasenames(s.provenance)
}

// Entries returns every existing CatalogEntry, keyed by basename. The
// caller must treat the map as read-only.
func (s *Store) Entries() map[string]CatalogEntry {
	return s.entries
}

// Provider returns the <provider> metadata read from (or defaulted for)
// this platform's gamelist.
func (s *Store) Provider() ProviderInfo {
	return s.provider
}

// Commit writes a merged set of entries, in the given order, plus their
// provenance, as two atomic file writes. orderedEntries must already
// reflect scan order so output is deterministic across runs on
// unchanged input. On any failure the prior gamelist and provenance
// files remain intact; Commit never partially truncates either.
func (s *Store) Commit(orderedEntries []CatalogEntry, provenance map[string]Provenance) error {
	if err := WriteGamelist(s.gamelistPath, s.provider, orderedEntries); err != nil {
		return fmt.Errorf("write gamelist: %w", err)
	}
	if err := WriteProvenance(s.provenancePath, provenance); err != nil {
		return fmt.Errorf("write provenance: %w", err)
	}
	return nil
}

// DefaultPaths derives the conventional gamelist/provenance file
// locations for a platform under the configured catalog root.
func DefaultPaths(catalogRoot, system string) Paths {
	dir := filepath.Join(catalogRoot, system)
	return Paths{
		GamelistPath:   filepath.Join(dir, "gamelist.xml"),
		ProvenancePath: filepath.Join(dir, "provenance.json"),
	}
}
