package scorer

import (
	"testing"

	"curateur/internal/provider"
	"curateur/internal/scanner"
)

func TestScoreCombinesFactorsWithFixedWeights(t *testing.T) {
	rom := scanner.RomEntity{
		DisplayBasename: "Super Metroid (USA)",
		Regions:         []string{"us"},
		SizeBytes:       1000,
	}
	game := provider.GameInfo{
		Names:        map[string]string{"us": "Super Metroid"},
		RomSizeBytes: ptrI(1000),
		Rating:       ptrF(20),
		Media: []provider.MediaItem{
			{Type: "box-2D"}, {Type: "ss"}, {Type: "video"},
		},
	}
	result := Score(rom, game)
	// Every factor is at its maximum: confidence should be 1.0.
	if result.Confidence < 0.999 {
		t.Fatalf("Confidence = %v, want ~1.0 for a perfect match", result.Confidence)
	}
}

func TestRankOrdersByDescendingConfidenceStably(t *testing.T) {
	rom := scanner.RomEntity{DisplayBasename: "Chrono Trigger (USA)", Regions: []string{"us"}}
	candidates := []provider.GameInfo{
		{Names: map[string]string{"jp": "Unrelated Title"}},
		{Names: map[string]string{"us": "Chrono Trigger"}},
		{Names: map[string]string{"eu": "Something Else Entirely"}},
	}
	ranked := Rank(rom, candidates)
	if ranked[0].Game.Names["us"] != "Chrono Trigger" {
		t.Fatalf("top candidate = %+v, want the exact-title match first", ranked[0].Game)
	}
}

func TestSelectBestHonorsThreshold(t *testing.T) {
	rom := scanner.RomEntity{DisplayBasename: "Chrono Trigger (USA)", Regions: []string{"us"}}
	candidates := []provider.GameInfo{
		{Names: map[string]string{"us": "Chrono Trigger"}},
	}
	ranked := Rank(rom, candidates)

	if _, ok := SelectBest(ranked, 0.75); !ok {
		t.Fatalf("expected an exact title and region match (score 0.80) to clear a 0.75 threshold")
	}
	if _, ok := SelectBest(ranked, 1.01); ok {
		t.Fatalf("no real candidate should clear an unreachable threshold")
	}
}

func TestSelectBestOnEmptyCandidates(t *testing.T) {
	if _, ok := SelectBest(nil, 0.5); ok {
		t.Fatalf("SelectBest with no candidates should report false")
	}
}
