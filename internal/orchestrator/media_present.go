package orchestrator

import (
	"path/filepath"

	"curateur/internal/media"
)

// presentMediaTypesOnDisk returns the subset of enabledTypes for which a
// "<basename>.*" file already exists in the platform's type directory,
// regardless of what the catalog entry's MediaPaths claims. The
// evaluator needs the disk truth, not the last-recorded belief: a file
// can be deleted out-of-band between runs.
func presentMediaTypesOnDisk(mediaRoot, platform, basename string, enabledTypes []string, typeConfigs map[string]media.TypeConfig) []string {
	var present []string
	for _, t := range enabledTypes {
		cfg, ok := typeConfigs[t]
		if !ok {
			continue
		}
		dir := filepath.Join(mediaRoot, platform, cfg.DirName)
		matches, err := filepath.Glob(filepath.Join(dir, basename+".*"))
		if err != nil || len(matches) == 0 {
			continue
		}
		present = append(present, t)
	}
	return present
}

func typeConfigIndex(types []media.TypeConfig) map[string]media.TypeConfig {
	idx := make(map[string]media.TypeConfig, len(types))
	for _, t := range types {
		idx[t.ProviderType] = t
	}
	return idx
}
