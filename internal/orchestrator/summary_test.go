package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"curateur/internal/evaluator"
	"curateur/internal/scanner"
	"curateur/internal/scheduler"
)

func TestBuildPlatformSummaryCountsActions(t *testing.T) {
	restore := stubNow(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	defer restore()

	scanResult := scanner.Result{
		Entities: []scanner.RomEntity{
			{DisplayBasename: "a.nes", SizeBytes: 100},
			{DisplayBasename: "b.nes", SizeBytes: 200},
		},
	}
	results := map[string]itemOutcome{
		"a.nes": {Basename: "a.nes", Action: evaluator.FullScrape},
		"b.nes": {Basename: "b.nes", Action: evaluator.Skip},
	}

	summary := buildPlatformSummary("nes", scanResult, results, []string{"c.nes"}, nil, 3)

	if summary.Scanned != 2 {
		t.Errorf("Scanned = %d, want 2", summary.Scanned)
	}
	if summary.ScannedBytes != 300 {
		t.Errorf("ScannedBytes = %d, want 300", summary.ScannedBytes)
	}
	if summary.FullScraped != 1 {
		t.Errorf("FullScraped = %d, want 1", summary.FullScraped)
	}
	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
	if summary.MediaCleaned != 3 {
		t.Errorf("MediaCleaned = %d, want 3", summary.MediaCleaned)
	}
	if len(summary.NotFound) != 1 || summary.NotFound[0] != "c.nes" {
		t.Errorf("NotFound = %v, want [c.nes]", summary.NotFound)
	}
}

func TestBuildPlatformSummaryFailedItems(t *testing.T) {
	restore := stubNow(t, time.Now())
	defer restore()

	failed := []scheduler.Failed{
		{Item: &scheduler.Item{Payload: &workItem{Rom: scanner.RomEntity{DisplayBasename: "z.nes"}}}, Error: errBoom},
		{Item: &scheduler.Item{Payload: &workItem{Rom: scanner.RomEntity{DisplayBasename: "a.nes"}}}, Error: errBoom},
	}
	summary := buildPlatformSummary("nes", scanner.Result{}, nil, nil, failed, 0)

	if len(summary.Failed) != 2 {
		t.Fatalf("Failed length = %d, want 2", len(summary.Failed))
	}
	if !strings.HasPrefix(summary.Failed[0], "a.nes:") {
		t.Errorf("Failed[0] = %q, want it sorted with a.nes first", summary.Failed[0])
	}
}

func TestWritePlatformSummaryContent(t *testing.T) {
	root := t.TempDir()
	s := PlatformSummary{
		Platform:     "nes",
		Scanned:      2,
		ScannedBytes: 2048,
		FullScraped:  1,
		Skipped:      1,
		NotFound:     []string{"missing.nes"},
		GeneratedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	path, err := WritePlatformSummary(root, s)
	if err != nil {
		t.Fatalf("WritePlatformSummary: %v", err)
	}
	if filepath.Base(path) != "curateur_summary_20260102_030405.log" {
		t.Errorf("summary filename = %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	for _, want := range []string{"platform: nes", "scanned: 2 (2.0 kB)", "not_found_item: missing.nes"} {
		if !strings.Contains(content, want) {
			t.Errorf("summary content missing %q, got:\n%s", want, content)
		}
	}
}

func TestRenderRunTableIncludesTotals(t *testing.T) {
	run := RunSummary{
		RunID: "11111111-1111-1111-1111-111111111111",
		Platforms: []PlatformSummary{
			{Platform: "nes", Scanned: 10, FullScraped: 5, Skipped: 5},
			{Platform: "snes", Scanned: 3, FullScraped: 3},
		},
		StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC),
	}
	out := RenderRunTable(run)
	for _, want := range []string{"nes", "snes", "TOTAL", "13", "elapsed: 5m0s", "run: 11111111-1111-1111-1111-111111111111"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q, got:\n%s", want, out)
		}
	}
}

func stubNow(t *testing.T, fixed time.Time) func() {
	t.Helper()
	original := now
	now = func() time.Time { return fixed }
	return func() { now = original }
}

var errBoom = &testErr{"boom"}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }
