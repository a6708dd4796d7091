package config

import (
	"fmt"
	"slices"

	"curateur/internal/media"
)

var validValidationModes = []string{"disabled", "normal", "strict"}
var validUpdatePolicies = []string{"never", "changed_only", "always"}
var validMergePolicies = []string{"preserve_user_edits", "provider_wins"}
var validNameVerification = []string{"strict", "normal", "lenient", "disabled"}
var validHashAlgorithms = []string{"CRC32", "MD5", "SHA1"}
var validLogFormats = []string{"console", "json"}
var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks that a decoded, normalized Config is internally
// consistent and refers only to recognized enum values. It does not touch
// the filesystem; EnsureDirectories does that separately.
func (c *Config) Validate() error {
	if c.Paths.RomRoot == "" {
		return fmt.Errorf("paths.rom_root is required")
	}
	if c.Paths.MediaRoot == "" {
		return fmt.Errorf("paths.media_root is required")
	}
	if c.Paths.CatalogRoot == "" {
		return fmt.Errorf("paths.catalog_root is required")
	}
	if c.Paths.PlatformIndex == "" {
		return fmt.Errorf("paths.platform_index is required")
	}

	if len(c.Media.EnabledTypes) == 0 {
		return fmt.Errorf("media.enabled_types must list at least one media type")
	}
	for _, t := range c.Media.EnabledTypes {
		if !slices.ContainsFunc(media.DefaultTypes, func(tc media.TypeConfig) bool { return tc.ProviderType == t }) {
			return fmt.Errorf("media.enabled_types: unrecognized media type %q", t)
		}
	}
	if !slices.Contains(validValidationModes, c.Media.Validation) {
		return fmt.Errorf("media.validation: unrecognized value %q", c.Media.Validation)
	}
	if c.Media.MinImageSide < 0 {
		return fmt.Errorf("media.min_image_side must be >= 0")
	}

	if !slices.Contains(validUpdatePolicies, c.Scraping.UpdatePolicy) {
		return fmt.Errorf("scraping.update_policy: unrecognized value %q", c.Scraping.UpdatePolicy)
	}
	if !slices.Contains(validMergePolicies, c.Scraping.MergePolicy) {
		return fmt.Errorf("scraping.merge_policy: unrecognized value %q", c.Scraping.MergePolicy)
	}
	if !slices.Contains(validNameVerification, c.Scraping.NameVerification) {
		return fmt.Errorf("scraping.name_verification: unrecognized value %q", c.Scraping.NameVerification)
	}
	if c.Scraping.IntegrityThreshold < 0 || c.Scraping.IntegrityThreshold > 1 {
		return fmt.Errorf("scraping.integrity_threshold must be within [0, 1]")
	}

	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("search.threshold must be within [0, 1]")
	}
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search.max_results must be >= 1")
	}

	if c.API.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("api.request_timeout_s must be >= 1")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must be >= 0")
	}
	if c.API.InitialRetryDelaySec < 0 {
		return fmt.Errorf("api.initial_retry_delay_s must be >= 0")
	}
	if c.API.QuotaWarningRatio <= 0 || c.API.QuotaWarningRatio > 1 {
		return fmt.Errorf("api.quota_warning_ratio must be within (0, 1]")
	}
	if c.API.Override.MaxWorkers < 0 || c.API.Override.RequestsPerMinute < 0 || c.API.Override.DailyQuota < 0 {
		return fmt.Errorf("api.override values must be >= 0")
	}

	if !slices.Contains(validHashAlgorithms, c.Runtime.HashAlgorithm) {
		return fmt.Errorf("runtime.hash_algorithm: unrecognized value %q", c.Runtime.HashAlgorithm)
	}
	if c.Runtime.HashSizeCapBytes < 0 {
		return fmt.Errorf("runtime.hash_size_cap_bytes must be >= 0")
	}
	if c.Runtime.MaxWorkers < 1 {
		return fmt.Errorf("runtime.max_workers must be >= 1")
	}

	if c.Logging.Format != "" && !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format: unrecognized value %q", c.Logging.Format)
	}
	if c.Logging.Level != "" && !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level: unrecognized value %q", c.Logging.Level)
	}

	return nil
}
