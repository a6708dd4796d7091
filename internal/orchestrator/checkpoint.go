package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// checkpointFailure records one ROM that failed during a run that was
// later interrupted, so a resumed run can report it without re-deriving
// the reason from scratch.
type checkpointFailure struct {
	Basename string `json:"basename"`
	Reason   string `json:"reason"`
}

// checkpointData is the on-disk shape of a platform's in-progress run,
// written at <catalog_dir>/.curateur_checkpoint.json.
type checkpointData struct {
	Platform      string              `json:"platform"`
	Timestamp     string              `json:"timestamp"`
	ProcessedRoms []string            `json:"processed_roms"`
	FailedRoms    []checkpointFailure `json:"failed_roms"`
	Processed     int                 `json:"processed"`
	Successful    int                 `json:"successful"`
	Failed        int                 `json:"failed"`
	Skipped       int                 `json:"skipped"`
	MediaOnly     int                 `json:"media_only"`
}

// checkpoint tracks a single platform run's progress to disk so a run
// interrupted mid-scrape (operator cancel, crash) can skip what it
// already did when resumed. interval <= 0 disables the periodic saves in
// recordProcessed; saveForce still writes the file.
type checkpoint struct {
	mu       sync.Mutex
	path     string
	interval int
	data     checkpointData
	seen     map[string]bool
}

func newCheckpoint(catalogDir, platform string, interval int) *checkpoint {
	return &checkpoint{
		path:     filepath.Join(catalogDir, ".curateur_checkpoint.json"),
		interval: interval,
		data:     checkpointData{Platform: platform},
		seen:     make(map[string]bool),
	}
}

// loadCheckpoint reads a prior run's checkpoint, if any. A checkpoint for
// a different platform (a stale file left behind by a path mixup) is
// rejected rather than silently adopted.
func loadCheckpoint(catalogDir, platform string, interval int) *checkpoint {
	c := newCheckpoint(catalogDir, platform, interval)
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return c
	}
	var data checkpointData
	if err := json.Unmarshal(raw, &data); err != nil {
		return c
	}
	if data.Platform != platform {
		return c
	}
	c.data = data
	for _, basename := range data.ProcessedRoms {
		c.seen[basename] = true
	}
	return c
}

// isProcessed reports whether basename was already accounted for in a
// prior, interrupted attempt at this platform.
func (c *checkpoint) isProcessed(basename string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seen[basename]
}

// recordProcessed adds one outcome and saves at the configured interval.
// success distinguishes a clean outcome (full scrape, update, media-only,
// or skip) from one that failed outright.
func (c *checkpoint) recordProcessed(basename string, action string, success bool, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seen[basename] {
		c.seen[basename] = true
		c.data.ProcessedRoms = append(c.data.ProcessedRoms, basename)
	}
	c.data.Processed++
	if success {
		c.data.Successful++
		switch action {
		case "skip":
			c.data.Skipped++
		case "media_only":
			c.data.MediaOnly++
		}
	} else {
		c.data.Failed++
		c.data.FailedRoms = append(c.data.FailedRoms, checkpointFailure{Basename: basename, Reason: reason})
	}

	if c.interval <= 0 {
		return
	}
	if c.data.Processed%c.interval == 0 {
		_ = c.save()
	}
}

// save writes the checkpoint atomically via a temp file then rename,
// regardless of the save interval.
func (c *checkpoint) save() error {
	c.data.Timestamp = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp checkpoint: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp checkpoint: %w", err)
	}
	return nil
}

// saveForce flushes the checkpoint to disk regardless of interval,
// called when a run ends early: cancellation or a run error. A run that
// completes removes the checkpoint instead.
func (c *checkpoint) saveForce() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save()
}

// remove deletes the checkpoint file after a successful, complete run.
func (c *checkpoint) remove() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}
