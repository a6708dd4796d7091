package catalog

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// WriteGamelist serializes entries to a platform's gamelist file
// atomically: encode to a sibling temp file, fsync, rename over the
// target. The previous file (if any) is preserved as a single rolling
// "<catalog_file>.bak" before the rename, so one failed write never
// loses the last-known-good document. Entries are written in the order
// given; callers are responsible for passing scan order so output stays
// deterministic run over run.
func WriteGamelist(path string, provider ProviderInfo, entries []CatalogEntry) error {
	doc := gamelistXML{
		Provider: provider.toXML(),
		Games:    make([]gameXML, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Games = append(doc.Games, e.toXML())
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode gamelist: %w", err)
	}
	output := append([]byte(xml.Header), body...)
	output = append(output, '\n')

	if err := backupExisting(path); err != nil {
		return fmt.Errorf("backup existing gamelist: %w", err)
	}
	return writeFileAtomic(path, output, 0o644)
}

// backupExisting copies path to path+".bak" if path currently exists,
// overwriting any prior backup. It is not itself atomic with respect to
// the subsequent write, by design: a crash between the two leaves at
// worst a stale .bak, never a truncated primary file.
func backupExisting(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return writeFileAtomic(path+".bak", data, 0o644)
}

// writeFileAtomic writes data to a sibling temp file, syncs it, then
// renames it over path, cleaning up the temp file on any failure.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "gamelist-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
