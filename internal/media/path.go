package media

import (
	"path/filepath"
	"strings"
)

// AssetPath builds the final on-disk path for one asset:
// <media_root>/<platform>/<type_directory>/<display_basename>.<ext>
func AssetPath(mediaRoot, platform string, cfg TypeConfig, displayBasename, format string) string {
	ext := strings.ToLower(strings.TrimPrefix(format, "."))
	if ext == "" {
		ext = "bin"
	}
	filename := displayBasename + "." + ext
	return filepath.Join(mediaRoot, platform, cfg.DirName, filename)
}

// CleanupPath mirrors AssetPath under the CLEANUP tree: the side
// directory removed or disabled media is moved into instead of deleted.
// <media_root>/CLEANUP/<platform>/<type_directory>/<file>
func CleanupPath(mediaRoot, platform, typeDir, filename string) string {
	return filepath.Join(mediaRoot, "CLEANUP", platform, typeDir, filename)
}
