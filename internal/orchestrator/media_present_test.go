package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"curateur/internal/media"
)

func sampleTypeConfigs() []media.TypeConfig {
	return []media.TypeConfig{
		{ProviderType: "box-2D", DirName: "box2dfront"},
		{ProviderType: "ss", DirName: "screenshots"},
		{ProviderType: "video", DirName: "videos"},
	}
}

func TestPresentMediaTypesOnDiskFindsExistingFiles(t *testing.T) {
	root := t.TempDir()
	boxDir := filepath.Join(root, "nes", "box2dfront")
	if err := os.MkdirAll(boxDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(boxDir, "quest.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	idx := typeConfigIndex(sampleTypeConfigs())
	present := presentMediaTypesOnDisk(root, "nes", "quest", []string{"box-2D", "ss", "video"}, idx)

	if len(present) != 1 || present[0] != "box-2D" {
		t.Fatalf("present = %v, want [box-2D]", present)
	}
}

func TestPresentMediaTypesOnDiskIgnoresUnknownType(t *testing.T) {
	root := t.TempDir()
	idx := typeConfigIndex(sampleTypeConfigs())

	present := presentMediaTypesOnDisk(root, "nes", "quest", []string{"manuel"}, idx)
	if len(present) != 0 {
		t.Fatalf("present = %v, want none for a type with no config entry", present)
	}
}

func TestPresentMediaTypesOnDiskEmptyWhenNothingOnDisk(t *testing.T) {
	root := t.TempDir()
	idx := typeConfigIndex(sampleTypeConfigs())

	present := presentMediaTypesOnDisk(root, "nes", "quest", []string{"box-2D", "ss"}, idx)
	if len(present) != 0 {
		t.Fatalf("present = %v, want none when no files exist", present)
	}
}

func TestTypeConfigIndexKeyedByProviderType(t *testing.T) {
	idx := typeConfigIndex(sampleTypeConfigs())
	if _, ok := idx["box-2D"]; !ok {
		t.Fatalf("expected box-2D to be indexed")
	}
	if cfg := idx["ss"]; cfg.DirName != "screenshots" {
		t.Fatalf("DirName = %q, want screenshots", cfg.DirName)
	}
}
