package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory locations used by a run. RomRoot and
// PlatformIndex are read-only inputs; MediaRoot and CatalogRoot are
// written to (atomically, per platform).
type Paths struct {
	RomRoot       string `toml:"rom_root"`
	MediaRoot     string `toml:"media_root"`
	CatalogRoot   string `toml:"catalog_root"`
	PlatformIndex string `toml:"platform_index"`
}

// Platforms selects which platforms from the platform-index a run covers.
// An empty Selection means all platforms.
type Platforms struct {
	Selection []string `toml:"selection"`
}

// Regions is the operator's region preference order, used for media
// selection and search scoring (§4.9, §4.8).
type Regions struct {
	Preferred []string `toml:"preferred"`
}

// Languages is the operator's language preference order for
// language-bearing assets and text.
type Languages struct {
	Preferred []string `toml:"preferred"`
}

// Media controls which asset types are fetched and how strictly they are
// validated (§6.7).
type Media struct {
	EnabledTypes      []string `toml:"enabled_types"`
	Validation        string   `toml:"validation"` // disabled|normal|strict
	SkipExistingMedia bool     `toml:"skip_existing_media"`
	MinImageSide      int      `toml:"min_image_side"`
	MinFileSizeBytes  int64    `toml:"min_file_size_bytes"`
}

// Scraping controls the decision evaluator (C4) and merge engine (C10).
type Scraping struct {
	UpdatePolicy       string  `toml:"update_policy"` // never|changed_only|always
	SkipScraped        bool    `toml:"skip_scraped"`
	MergePolicy        string  `toml:"merge_policy"`  // preserve_user_edits|provider_wins
	IntegrityThreshold float64 `toml:"integrity_threshold"`
	NameVerification   string  `toml:"name_verification"` // strict|normal|lenient|disabled
	CheckpointInterval int     `toml:"checkpoint_interval"` // 0 disables periodic checkpoint saves
}

// Search controls the name-search fallback and match scorer (§4.8).
type Search struct {
	EnableFallback bool    `toml:"enable_fallback"`
	Threshold      float64 `toml:"threshold"`
	MaxResults     int     `toml:"max_results"`
	Interactive    bool    `toml:"interactive"`
}

// Override lets an operator further restrict Provider-reported caps; it can
// only lower them (§4.6's "effective limit reconciliation").
type Override struct {
	MaxWorkers        int `toml:"max_workers"`
	RequestsPerMinute int `toml:"requests_per_minute"`
	DailyQuota        int `toml:"daily_quota"`
}

// API contains network timeouts, retry knobs, and operator overrides.
type API struct {
	RequestTimeoutSeconds  int      `toml:"request_timeout_s"`
	MaxRetries             int      `toml:"max_retries"`
	InitialRetryDelaySec   float64  `toml:"initial_retry_delay_s"`
	QuotaWarningRatio      float64  `toml:"quota_warning_ratio"`
	Override               Override `toml:"override"`
}

// Runtime contains identity (hashing) tuning and the dry-run switch.
type Runtime struct {
	HashAlgorithm    string `toml:"hash_algorithm"` // CRC32|MD5|SHA1
	HashSizeCapBytes int64  `toml:"hash_size_cap_bytes"`
	DryRun           bool   `toml:"dry_run"`
	MaxWorkers       int    `toml:"max_workers"`
}

// Provider holds credentials for the upstream metadata/media service
// (§6.1). Values are never logged verbatim; see internal/secrets.
type Provider struct {
	BaseURL      string `toml:"base_url"`
	DeveloperID  string `toml:"developer_id"`
	DeveloperKey string `toml:"developer_key"`
	Username     string `toml:"username"`
	Password     string `toml:"password"`
}

// Logging controls the slog output format/level and where a run's log file
// lands.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console|json
}

// Config encapsulates all configuration values for curateur.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Platforms Platforms `toml:"platforms"`
	Regions   Regions   `toml:"regions"`
	Languages Languages `toml:"languages"`
	Media     Media     `toml:"media"`
	Scraping  Scraping  `toml:"scraping"`
	Search    Search    `toml:"search"`
	API       API       `toml:"api"`
	Runtime   Runtime   `toml:"runtime"`
	Provider  Provider  `toml:"provider"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/curateur/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. An
// empty path triggers the project-local / XDG-default search order.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/curateur/config.toml")
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("curateur.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the catalog and media roots a run writes into.
// RomRoot and PlatformIndex are read-only and never created.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.MediaRoot, c.Paths.CatalogRoot} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes a sample configuration file to the specified
// location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other
// packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// PlatformCatalogDir returns the per-platform catalog directory.
func (c *Config) PlatformCatalogDir(platform string) string {
	return filepath.Join(c.Paths.CatalogRoot, platform)
}

// PlatformMediaDir returns the per-platform media directory.
func (c *Config) PlatformMediaDir(platform string) string {
	return filepath.Join(c.Paths.MediaRoot, platform)
}

// CleanupDir returns the CLEANUP tree location for a platform and media
// type directory (§4.3.1, §6.4).
func (c *Config) CleanupDir(platform, typeDir string) string {
	return filepath.Join(c.Paths.MediaRoot, "CLEANUP", platform, typeDir)
}
