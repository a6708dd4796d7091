package catalog

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
)

// ParseGamelist reads and parses a platform's gamelist XML document.
// A missing file is not an error: it is reported as an empty, zero-value
// document so a first run on a fresh platform needs no special case.
// Individual malformed <game> elements are skipped with a warning rather
// than aborting the whole read.
func ParseGamelist(log *slog.Logger, path string) (ProviderInfo, []CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ProviderInfo{}, nil, nil
		}
		return ProviderInfo{}, nil, fmt.Errorf("read gamelist %s: %w", path, err)
	}

	var doc gamelistXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return ProviderInfo{}, nil, fmt.Errorf("parse gamelist %s: %w", path, err)
	}

	entries := make([]CatalogEntry, 0, len(doc.Games))
	for i, g := range doc.Games {
		if g.Path == "" || g.Name == "" {
			if log != nil {
				log.Warn("skipping malformed gamelist entry",
					slog.String("path", path),
					slog.Any("error", invalidGameError(i, "missing path or name")),
				)
			}
			continue
		}
		entry := g.toEntry()
		entry.DisplayBasename = basenameFromPath(entry.Path)
		entries = append(entries, entry)
	}

	return doc.Provider.toInfo(), entries, nil
}
