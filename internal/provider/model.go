package provider

// GameInfo is the domain form of a ScreenScraper <jeu> element: the
// fields the merge engine and gamelist writer consume. Names,
// Descriptions, and ReleaseDates are keyed by region or language code
// the way ScreenScraper returns them (the caller picks a preferred one
// per RunConfig's region/language order).
type GameInfo struct {
	ID           string
	Names        map[string]string // region code -> name
	Descriptions map[string]string // language code -> description
	ReleaseDates map[string]string // region code -> YYYY-MM-DD (or similar)
	Developer    string
	Publisher    string
	Genres       []string
	Players      string
	Rating       *float64 // 0-20 native ScreenScraper scale; caller normalizes to 0-1
	Media        []MediaItem
	RomSizeBytes *int64 // matched file's reported size, present on hash-matched lookups
}

// MediaItem is one downloadable asset reference from a GameInfo.
type MediaItem struct {
	Type   string // ScreenScraper media type, e.g. "box-2D", "ss"
	URL    string
	Format string
	Region string
}

// MediaByType returns every MediaItem of the given type, in response
// order. Region preference is applied by SelectMedia.
func (g GameInfo) MediaByType(mediaType string) []MediaItem {
	var items []MediaItem
	for _, m := range g.Media {
		if m.Type == mediaType {
			items = append(items, m)
		}
	}
	return items
}

// SelectMedia returns the best MediaItem of a type given a region
// preference order: the first item whose region equals a preferred region
// (in preference order), else the first item with no region tag, else the
// first item of the type.
func (g GameInfo) SelectMedia(mediaType string, regionPreference []string) (MediaItem, bool) {
	items := g.MediaByType(mediaType)
	if len(items) == 0 {
		return MediaItem{}, false
	}
	for _, region := range regionPreference {
		for _, item := range items {
			if item.Region == region {
				return item, true
			}
		}
	}
	for _, item := range items {
		if item.Region == "" {
			return item, true
		}
	}
	return items[0], true
}

// UserInfo is the authenticated account's rate limits and quota usage,
// taken from ssuserInfos.php.
type UserInfo struct {
	ID                string
	Level             int
	MaxThreads        int
	MaxRequestsPerMin int
	RequestsToday     int
	MaxRequestsPerDay int
}
