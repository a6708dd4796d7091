package scorer

import (
	"sort"

	"curateur/internal/provider"
	"curateur/internal/scanner"
)

// Result is one candidate's factor breakdown and combined confidence.
type Result struct {
	Confidence float64
	Factors    Factors
}

// Candidate pairs a search result with its scored Result against a ROM.
type Candidate struct {
	Game   provider.GameInfo
	Result Result
}

// Score rates game as a match for rom.
func Score(rom scanner.RomEntity, game provider.GameInfo) Result {
	romNorm := NormalizeFilename(rom.DisplayBasename)
	f := Factors{
		Filename: filenameSimilarity(romNorm, game),
		Region:   regionMatch(rom.Regions, game),
		Size:     sizeProximity(rom.SizeBytes, game),
		Media:    mediaBreadth(game),
		Rating:   ratingScore(game),
	}
	return Result{Confidence: f.Confidence(), Factors: f}
}

// Rank scores every candidate against rom and orders them by descending
// confidence. Ties keep the provider's original ordering (sort.SliceStable).
func Rank(rom scanner.RomEntity, candidates []provider.GameInfo) []Candidate {
	ranked := make([]Candidate, len(candidates))
	for i, game := range candidates {
		ranked[i] = Candidate{Game: game, Result: Score(rom, game)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Confidence > ranked[j].Result.Confidence
	})
	return ranked
}

// SelectBest returns the top-ranked candidate if it clears threshold. The
// caller (interactive mode) decides what to do with the full ranked list
// when it does not: prompt, or mark the ROM unmatched.
func SelectBest(ranked []Candidate, threshold float64) (Candidate, bool) {
	if len(ranked) == 0 || ranked[0].Result.Confidence < threshold {
		return Candidate{}, false
	}
	return ranked[0], true
}
