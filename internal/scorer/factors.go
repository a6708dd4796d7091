package scorer

import "curateur/internal/provider"

// Weights for the five confidence factors, summing to 1.0.
const (
	WeightFilename = 0.40
	WeightRegion   = 0.30
	WeightSize     = 0.15
	WeightMedia    = 0.10
	WeightRating   = 0.05
)

// Factors holds the individual 0.0-1.0 scores that combine into a
// candidate's overall confidence.
type Factors struct {
	Filename float64
	Region   float64
	Size     float64
	Media    float64
	Rating   float64
}

// Confidence combines the factors using their fixed weights.
func (f Factors) Confidence() float64 {
	return f.Filename*WeightFilename +
		f.Region*WeightRegion +
		f.Size*WeightSize +
		f.Media*WeightMedia +
		f.Rating*WeightRating
}

// filenameSimilarity is the best normalized-name ratio across every
// regional name a candidate carries, since a ROM's basename may match one
// region's title far better than another's.
func filenameSimilarity(romNorm string, game provider.GameInfo) float64 {
	best := 0.0
	for _, name := range game.Names {
		if r := Ratio(romNorm, Normalize(name)); r > best {
			best = r
		}
	}
	return best
}

// regionMatch scores how well a candidate's known regions align with the
// ROM's own declared regions (parsed from its filename tags), preferring
// the ROM's first-listed region and decaying for later ones. A ROM with no
// declared regions, or a candidate matching none of them, scores neutrally
// or low respectively rather than excluding the candidate outright.
func regionMatch(romRegions []string, game provider.GameInfo) float64 {
	if len(romRegions) == 0 {
		return 0.5
	}
	candidateRegions := make(map[string]bool, len(game.Names))
	for region := range game.Names {
		candidateRegions[region] = true
	}
	for i, region := range romRegions {
		if candidateRegions[region] {
			score := 1.0 - 0.2*float64(i)
			if score < 0.2 {
				score = 0.2
			}
			return score
		}
	}
	return 0.1
}

// sizeProximity compares the ROM's file size to the candidate's reported
// size when both are known; either side missing scores neutrally.
func sizeProximity(romSizeBytes int64, game provider.GameInfo) float64 {
	if romSizeBytes <= 0 || game.RomSizeBytes == nil || *game.RomSizeBytes <= 0 {
		return 0.5
	}
	gameSize := *game.RomSizeBytes
	if romSizeBytes == gameSize {
		return 1.0
	}
	diff := romSizeBytes - gameSize
	if diff < 0 {
		diff = -diff
	}
	larger := romSizeBytes
	if gameSize > larger {
		larger = gameSize
	}
	pct := float64(diff) / float64(larger) * 100
	switch {
	case pct < 5:
		return 0.9
	case pct < 10:
		return 0.7
	case pct < 20:
		return 0.5
	default:
		return 0.2
	}
}

// mediaBreadth rewards candidates carrying more distinct media types,
// saturating once three or more are available.
func mediaBreadth(game provider.GameInfo) float64 {
	types := make(map[string]bool)
	for _, m := range game.Media {
		types[m.Type] = true
	}
	score := float64(len(types)) / 3.0
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ratingScore normalizes ScreenScraper's 0-20 rating scale to 0.0-1.0,
// scoring neutrally when a candidate has no rating.
func ratingScore(game provider.GameInfo) float64 {
	if game.Rating == nil {
		return 0.5
	}
	normalized := *game.Rating / 20.0
	switch {
	case normalized > 1.0:
		return 1.0
	case normalized < 0:
		return 0
	default:
		return normalized
	}
}
