package catalog

import (
	"path/filepath"
	"strings"
)

// basenameFromPath derives the display basename a gamelist <path> value
// refers to, matching the scanner's DisplayBasename convention (stem,
// no leading "./").
func basenameFromPath(p string) string {
	p = strings.TrimPrefix(p, "./")
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// romRelPath formats a ROM's primary file path as a gamelist <path>
// value, relative to the platform's ROM root.
func romRelPath(romRoot, primaryFile string) string {
	rel, err := filepath.Rel(romRoot, primaryFile)
	if err != nil {
		rel = filepath.Base(primaryFile)
	}
	return "./" + filepath.ToSlash(rel)
}
