package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// matchDiscFolder checks whether dir (whose name already carries an
// accepted extension) contains exactly one file whose stem equals the
// directory's own stem, and returns that file's path.
func matchDiscFolder(dir string) (string, error) {
	dirName := filepath.Base(dir)
	dirStem := strings.TrimSuffix(dirName, filepath.Ext(dirName))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read disc folder %s: %w", dirName, err)
	}

	var match string
	matches := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if stem == dirStem {
			match = filepath.Join(dir, entry.Name())
			matches++
		}
	}

	switch matches {
	case 0:
		return "", fmt.Errorf("disc folder %s contains no file matching its stem", dirName)
	case 1:
		return match, nil
	default:
		return "", fmt.Errorf("disc folder %s contains %d files matching its stem", dirName, matches)
	}
}
