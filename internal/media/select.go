package media

import (
	"curateur/internal/provider"
	"curateur/internal/scanner"
)

// SelectAsset picks exactly one candidate of cfg's type from game: the
// ROM's own declared regions first (in ROM order), then the operator's
// preferred regions (in config order), skipping any region already
// covered by a duplicate. Regionless types (video, fanart, marquee) skip
// the region bucket entirely. ScreenScraper's media elements carry no
// language attribute the way genres and synopses do, so "language-bearing"
// types described for a downstream frontend (manuals, descriptive text)
// are selected the same way as region-bearing ones here.
func SelectAsset(rom scanner.RomEntity, game provider.GameInfo, cfg TypeConfig, configPreferredRegions []string) (provider.MediaItem, bool) {
	if cfg.Regionless {
		return game.SelectMedia(cfg.ProviderType, nil)
	}
	prefs := dedupPreserveOrder(rom.Regions, configPreferredRegions)
	return game.SelectMedia(cfg.ProviderType, prefs)
}

// SelectAssets runs SelectAsset for every enabled type, returning only
// the types a candidate was actually found for.
func SelectAssets(rom scanner.RomEntity, game provider.GameInfo, enabled []TypeConfig, configPreferredRegions []string) map[string]provider.MediaItem {
	selected := make(map[string]provider.MediaItem, len(enabled))
	for _, cfg := range enabled {
		if item, ok := SelectAsset(rom, game, cfg, configPreferredRegions); ok {
			selected[cfg.ProviderType] = item
		}
	}
	return selected
}

// dedupPreserveOrder concatenates lists, keeping each value's first
// occurrence and dropping later repeats across either list.
func dedupPreserveOrder(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, v := range list {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
