package platformindex

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Platform describes one entry from the downstream frontend's es_systems.xml.
type Platform struct {
	Name       string   // downstream-frontend identifier, e.g. "nes"
	FullName   string   // human-readable full name
	Path       string   // raw path, may contain a %ROMPATH% macro
	Extensions []string // lowercase, leading dot, e.g. [".nes", ".zip"]
	ProviderID string   // Provider's numeric/string platform code
}

// SupportsM3U reports whether the platform's accepted extensions include
// playlists.
func (p Platform) SupportsM3U() bool {
	for _, ext := range p.Extensions {
		if ext == ".m3u" {
			return true
		}
	}
	return false
}

// ResolveRomPath expands the %ROMPATH% macro against romRoot and returns an
// absolute, cleaned path. A path without the macro that is already
// relative is joined to romRoot.
func (p Platform) ResolveRomPath(romRoot string) (string, error) {
	raw := p.Path
	if romPathMacro.MatchString(raw) {
		raw = romPathMacro.ReplaceAllString(raw, romRoot+"/")
	} else if !filepath.IsAbs(raw) {
		raw = filepath.Join(romRoot, raw)
	}
	return expandAndClean(raw)
}

var romPathMacro = regexp.MustCompile(`(?i)%ROMPATH%[/\\]?`)

func expandAndClean(raw string) (string, error) {
	if strings.HasPrefix(raw, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		raw = filepath.Join(home, strings.TrimPrefix(raw, "~"))
	}
	absolute, err := filepath.Abs(filepath.Clean(raw))
	if err != nil {
		return "", fmt.Errorf("resolve absolute rom path: %w", err)
	}
	return absolute, nil
}

type systemListDocument struct {
	XMLName xml.Name       `xml:"systemList"`
	Systems []systemRecord `xml:"system"`
}

type systemRecord struct {
	Name       string `xml:"name"`
	FullName   string `xml:"fullname"`
	Path       string `xml:"path"`
	Extension  string `xml:"extension"`
	PlatformID string `xml:"platform"`
}

// ErrNoPlatforms is returned when a document parses but contains no usable
// system entries.
var ErrNoPlatforms = fmt.Errorf("platform index: no valid platforms found")

// Parse reads and decodes the platform-index XML file at path.
func Parse(path string) ([]Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platform index: %w", err)
	}

	var doc systemListDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse platform index: %w", err)
	}

	platforms := make([]Platform, 0, len(doc.Systems))
	for _, sys := range doc.Systems {
		platform, ok := convertSystem(sys)
		if !ok {
			continue
		}
		platforms = append(platforms, platform)
	}

	if len(platforms) == 0 {
		return nil, ErrNoPlatforms
	}
	return platforms, nil
}

func convertSystem(sys systemRecord) (Platform, bool) {
	name := strings.TrimSpace(sys.Name)
	fullName := strings.TrimSpace(sys.FullName)
	path := strings.TrimSpace(sys.Path)
	providerID := strings.TrimSpace(sys.PlatformID)

	if name == "" || fullName == "" || path == "" || providerID == "" {
		return Platform{}, false
	}

	fields := strings.Fields(sys.Extension)
	if len(fields) == 0 {
		return Platform{}, false
	}
	extensions := make([]string, 0, len(fields))
	for _, ext := range fields {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			extensions = append(extensions, ext)
		}
	}
	if len(extensions) == 0 {
		return Platform{}, false
	}

	return Platform{
		Name:       name,
		FullName:   fullName,
		Path:       path,
		Extensions: extensions,
		ProviderID: providerID,
	}, true
}

// FilterByName restricts platforms to the given (case-insensitive) names.
// An empty or nil selection returns all platforms unchanged. An unknown
// requested name is an error, naming every name that could not be found.
func FilterByName(platforms []Platform, selection []string) ([]Platform, error) {
	if len(selection) == 0 {
		return platforms, nil
	}

	wanted := make(map[string]bool, len(selection))
	for _, name := range selection {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	found := make(map[string]bool, len(selection))
	filtered := make([]Platform, 0, len(selection))
	for _, platform := range platforms {
		key := strings.ToLower(platform.Name)
		if wanted[key] {
			filtered = append(filtered, platform)
			found[key] = true
		}
	}

	var missing []string
	for name := range wanted {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("platforms not found in platform index: %s", strings.Join(missing, ", "))
	}
	return filtered, nil
}
