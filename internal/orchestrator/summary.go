package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"curateur/internal/evaluator"
	"curateur/internal/scanner"
	"curateur/internal/scheduler"
)

// PlatformSummary is one platform's result, written to a per-platform
// text artifact (§6.5) and rolled into the run-level console table.
type PlatformSummary struct {
	Platform     string
	Scanned      int
	ScannedBytes int64
	Conflicts    int
	FullScraped  int
	Updated      int
	MediaOnly    int
	Skipped      int
	NotFound     []string
	Failed       []string
	MediaCleaned int
	GeneratedAt  time.Time
}

// RunSummary is the aggregate result of a full run across every
// selected platform.
type RunSummary struct {
	RunID     string
	Platforms []PlatformSummary
	StartedAt time.Time
	EndedAt   time.Time
}

func buildPlatformSummary(platform string, scanResult scanner.Result, results map[string]itemOutcome, notFound []string, failed []scheduler.Failed, mediaCleaned int) PlatformSummary {
	var scannedBytes int64
	for _, rom := range scanResult.Entities {
		scannedBytes += rom.SizeBytes
	}
	summary := PlatformSummary{
		Platform:     platform,
		Scanned:      len(scanResult.Entities),
		ScannedBytes: scannedBytes,
		Conflicts:    len(scanResult.Conflicts),
		NotFound:     notFound,
		MediaCleaned: mediaCleaned,
		GeneratedAt:  now(),
	}
	for _, outcome := range results {
		switch outcome.Action {
		case evaluator.FullScrape:
			summary.FullScraped++
		case evaluator.Update:
			summary.Updated++
		case evaluator.MediaOnly:
			summary.MediaOnly++
		case evaluator.Skip:
			summary.Skipped++
		}
	}
	for _, f := range failed {
		if wi, ok := f.Item.Payload.(*workItem); ok {
			summary.Failed = append(summary.Failed, fmt.Sprintf("%s: %v", wi.Rom.DisplayBasename, f.Error))
		}
	}
	sort.Strings(summary.Failed)
	return summary
}

// now is a seam so tests can stamp a summary deterministically;
// production code always calls time.Now().
var now = func() time.Time { return time.Now().UTC() }

// WritePlatformSummary commits the grep-stable text artifact at
// <catalog_root>/<platform>/curateur_summary_<date>_<time>.log.
func WritePlatformSummary(catalogRoot string, s PlatformSummary) (string, error) {
	dir := filepath.Join(catalogRoot, s.Platform)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create platform summary directory: %w", err)
	}
	filename := fmt.Sprintf("curateur_summary_%s.log", s.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	var b strings.Builder
	fmt.Fprintf(&b, "platform: %s\n", s.Platform)
	fmt.Fprintf(&b, "generated_at: %s\n", s.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "scanned: %d (%s)\n", s.Scanned, humanize.Bytes(uint64(s.ScannedBytes)))
	fmt.Fprintf(&b, "conflicts: %d\n", s.Conflicts)
	fmt.Fprintf(&b, "full_scraped: %d\n", s.FullScraped)
	fmt.Fprintf(&b, "updated: %d\n", s.Updated)
	fmt.Fprintf(&b, "media_only: %d\n", s.MediaOnly)
	fmt.Fprintf(&b, "skipped: %d\n", s.Skipped)
	fmt.Fprintf(&b, "not_found: %d\n", len(s.NotFound))
	fmt.Fprintf(&b, "failed: %d\n", len(s.Failed))
	fmt.Fprintf(&b, "media_cleaned: %d\n", s.MediaCleaned)
	for _, name := range s.NotFound {
		fmt.Fprintf(&b, "not_found_item: %s\n", name)
	}
	for _, line := range s.Failed {
		fmt.Fprintf(&b, "failed_item: %s\n", line)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write platform summary: %w", err)
	}
	return path, nil
}

// RenderRunTable renders the run-level console summary: one row per
// platform, totals rolled up the way a glance at a finished run needs.
func RenderRunTable(run RunSummary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Platform", "Scanned", "Full", "Updated", "Media Only", "Skipped", "Not Found", "Failed"})

	var totalScanned, totalFull, totalUpdated, totalMedia, totalSkipped, totalNotFound, totalFailed int
	for _, p := range run.Platforms {
		tw.AppendRow(table.Row{
			p.Platform, p.Scanned, p.FullScraped, p.Updated, p.MediaOnly, p.Skipped, len(p.NotFound), len(p.Failed),
		})
		totalScanned += p.Scanned
		totalFull += p.FullScraped
		totalUpdated += p.Updated
		totalMedia += p.MediaOnly
		totalSkipped += p.Skipped
		totalNotFound += len(p.NotFound)
		totalFailed += len(p.Failed)
	}
	tw.AppendFooter(table.Row{"total", totalScanned, totalFull, totalUpdated, totalMedia, totalSkipped, totalNotFound, totalFailed})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	elapsed := run.EndedAt.Sub(run.StartedAt).Round(time.Second)
	return tw.Render() + fmt.Sprintf("\nrun: %s\nelapsed: %s\n", run.RunID, elapsed)
}
