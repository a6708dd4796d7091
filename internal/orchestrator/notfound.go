package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteNotFoundList writes <catalog_root>/<platform>/<platform>_not_found.txt
// listing every basename the provider had no answer for, one per line. It
// is only written when there is at least one such item, and removed if a
// prior run's list exists but this run found everything.
func WriteNotFoundList(catalogRoot, platform string, notFound []string) error {
	path := filepath.Join(catalogRoot, platform, platform+"_not_found.txt")
	if len(notFound) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale not-found list: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create not-found directory: %w", err)
	}
	content := strings.Join(notFound, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write not-found list: %w", err)
	}
	return nil
}
