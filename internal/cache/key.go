package cache

import (
	"fmt"
	"strings"
)

// BuildKey derives the cache key for a ROM lookup on a platform: the primary
// hash when one is available, else the primary filename and size. Matching
// the spec's key definition keeps a renamed-but-unmodified ROM cache-stable
// when a hash is present, and falls back gracefully when it isn't.
func BuildKey(platform, identityHash, primaryFilename string, primarySize int64) string {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if identityHash != "" {
		return fmt.Sprintf("%s:hash:%s", platform, strings.ToLower(identityHash))
	}
	return fmt.Sprintf("%s:name:%s:%d", platform, primaryFilename, primarySize)
}
