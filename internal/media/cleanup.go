package media

import (
	"fmt"
	"os"
	"path/filepath"

	"curateur/internal/fileutil"
)

// MoveToCleanup relocates src to dst, creating dst's parent directories
// as needed. It tries os.Rename first (the common same-filesystem case);
// if that fails for any reason, including src and dst straddling
// filesystems, it falls back to a verified copy-then-remove so a crash
// mid-move can never silently drop the file. This is the only place
// media content is ever deleted outright: once the verified copy lands
// at dst, the original is removed.
func MoveToCleanup(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create cleanup directory: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		return fmt.Errorf("copy to cleanup: %w", err)
	}
	return os.Remove(src)
}
