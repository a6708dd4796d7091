package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPlatformIndex = `<?xml version="1.0"?>
<systemList>
  <system>
    <name>nes</name>
    <fullname>Nintendo Entertainment System</fullname>
    <path>%ROMPATH%/nes</path>
    <extension>.nes .zip</extension>
    <platform>3</platform>
  </system>
  <system>
    <name>snes</name>
    <fullname>Super Nintendo Entertainment System</fullname>
    <path>%ROMPATH%/snes</path>
    <extension>.sfc .zip</extension>
    <platform>4</platform>
  </system>
</systemList>
`

func writeTestConfig(t *testing.T, root string) string {
	t.Helper()
	indexPath := filepath.Join(root, "platforms.xml")
	if err := os.WriteFile(indexPath, []byte(testPlatformIndex), 0o644); err != nil {
		t.Fatalf("write platform index: %v", err)
	}

	configPath := filepath.Join(root, "config.toml")
	content := "[paths]\n" +
		"rom_root = \"" + filepath.Join(root, "roms") + "\"\n" +
		"media_root = \"" + filepath.Join(root, "media") + "\"\n" +
		"catalog_root = \"" + filepath.Join(root, "catalog") + "\"\n" +
		"platform_index = \"" + indexPath + "\"\n" +
		"\n[platforms]\nselection = [\"nes\"]\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--config", configPath}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConfigValidate(t *testing.T) {
	root := t.TempDir()
	configPath := writeTestConfig(t, root)

	out, _, err := runCLI(t, configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("output = %q, want it to mention validity", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	root := t.TempDir()
	configPath := writeTestConfig(t, root)
	target := filepath.Join(root, "nested", "sample.toml")

	out, _, err := runCLI(t, configPath, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("output = %q, want a confirmation message", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config at %s: %v", target, err)
	}
}

func TestConfigInitRefusesOverwriteWithoutFlag(t *testing.T) {
	root := t.TempDir()
	configPath := writeTestConfig(t, root)
	target := filepath.Join(root, "sample.toml")
	if err := os.WriteFile(target, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed existing file: %v", err)
	}

	_, _, err := runCLI(t, configPath, "config", "init", "--path", target)
	if err == nil {
		t.Fatalf("expected an error when the target already exists without --overwrite")
	}
}

func TestPlatformsListShowsSelection(t *testing.T) {
	root := t.TempDir()
	configPath := writeTestConfig(t, root)

	out, _, err := runCLI(t, configPath, "platforms", "list")
	if err != nil {
		t.Fatalf("platforms list: %v", err)
	}
	if !strings.Contains(out, "nes") || !strings.Contains(out, "snes") {
		t.Fatalf("output = %q, want both platforms listed", out)
	}
}

func TestCacheStatsOnEmptyCatalog(t *testing.T) {
	root := t.TempDir()
	configPath := writeTestConfig(t, root)

	out, _, err := runCLI(t, configPath, "cache", "stats", "nes")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	if !strings.Contains(out, "nes:") {
		t.Fatalf("output = %q, want a per-platform stats line", out)
	}
}
