package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Provenance is the engine-private record of what it used the last time
// it acted on a RomEntity: never emitted into the gamelist itself, only
// into the sidecar file. IdentityHash changing between here and the
// currently-computed hash is the sole "ROM changed" signal under the
// changed_only update policy.
type Provenance struct {
	RecordID     string            `json:"record_id"`
	IdentityHash string            `json:"identity_hash"`
	MediaHashes  map[string]string `json:"media_hashes,omitempty"` // media type -> content hash
	ScrapedAt    string            `json:"scraped_at"`             // RFC3339
}

// provenanceFile is the sidecar document: a flat map keyed by display
// basename, so a lookup is O(1) without re-parsing the gamelist.
type provenanceFile struct {
	Entries map[string]Provenance `json:"entries"`
}

// LoadProvenance reads a platform's provenance sidecar. A missing file
// is not an error; it yields an empty index, matching ParseGamelist's
// fresh-platform behavior.
func LoadProvenance(path string) (map[string]Provenance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Provenance{}, nil
		}
		return nil, fmt.Errorf("read provenance %s: %w", path, err)
	}
	var doc provenanceFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse provenance %s: %w", path, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]Provenance{}
	}
	return doc.Entries, nil
}

// WriteProvenance commits the provenance index atomically, using the
// same write idiom as the gamelist writer.
func WriteProvenance(path string, entries map[string]Provenance) error {
	doc := provenanceFile{Entries: entries}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode provenance: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(path, data, 0o644)
}

// sortedBasenames returns the keys of a provenance index in sorted
// order; Store.Basenames is built on it.
func sortedBasenames(entries map[string]Provenance) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
