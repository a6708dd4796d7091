package config

import (
	"strings"

	"curateur/internal/media"
)

// normalize expands path fields to absolute form and trims/lowercases list
// fields so downstream comparisons never have to repeat that work. Media
// types are the exception: they are matched case-insensitively and kept in
// their canonical Provider spelling (e.g. "box-2D").
func (c *Config) normalize() error {
	var err error

	if c.Paths.RomRoot != "" {
		if c.Paths.RomRoot, err = expandPath(c.Paths.RomRoot); err != nil {
			return err
		}
	}
	if c.Paths.MediaRoot != "" {
		if c.Paths.MediaRoot, err = expandPath(c.Paths.MediaRoot); err != nil {
			return err
		}
	}
	if c.Paths.CatalogRoot != "" {
		if c.Paths.CatalogRoot, err = expandPath(c.Paths.CatalogRoot); err != nil {
			return err
		}
	}
	if c.Paths.PlatformIndex != "" {
		if c.Paths.PlatformIndex, err = expandPath(c.Paths.PlatformIndex); err != nil {
			return err
		}
	}

	c.Platforms.Selection = normalizeList(c.Platforms.Selection)
	c.Regions.Preferred = normalizeList(c.Regions.Preferred)
	c.Languages.Preferred = normalizeList(c.Languages.Preferred)
	c.Media.EnabledTypes = normalizeMediaTypes(c.Media.EnabledTypes)

	c.Media.Validation = strings.ToLower(strings.TrimSpace(c.Media.Validation))
	c.Scraping.UpdatePolicy = strings.ToLower(strings.TrimSpace(c.Scraping.UpdatePolicy))
	c.Scraping.MergePolicy = strings.ToLower(strings.TrimSpace(c.Scraping.MergePolicy))
	c.Scraping.NameVerification = strings.ToLower(strings.TrimSpace(c.Scraping.NameVerification))
	c.Runtime.HashAlgorithm = strings.ToUpper(strings.TrimSpace(c.Runtime.HashAlgorithm))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	c.Provider.BaseURL = strings.TrimRight(strings.TrimSpace(c.Provider.BaseURL), "/")

	return nil
}

func normalizeMediaTypes(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		for _, tc := range media.DefaultTypes {
			if strings.EqualFold(v, tc.ProviderType) {
				v = tc.ProviderType
				break
			}
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
