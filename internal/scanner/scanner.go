package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"curateur/internal/logging"
	"curateur/internal/platformindex"
)

// Scan walks romRoot for the given platform and returns its RomEntity
// inventory plus any conflict reports. A missing romRoot is not an error:
// it simply yields an empty result, mirroring a platform with no ROMs
// installed yet.
func Scan(log *slog.Logger, platform platformindex.Platform, romRoot string) (Result, error) {
	if log == nil {
		log = logging.NewNop()
	}

	info, err := os.Stat(romRoot)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("rom directory not found, skipping platform",
				logging.String(logging.FieldPlatform, platform.Name),
				logging.String(logging.FieldRomPath, romRoot))
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("stat rom root: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("rom root %s is not a directory", romRoot)
	}

	entries, err := os.ReadDir(romRoot)
	if err != nil {
		return Result{}, fmt.Errorf("read rom root: %w", err)
	}

	extensions := make(map[string]bool, len(platform.Extensions))
	for _, ext := range platform.Extensions {
		extensions[ext] = true
	}

	var result Result
	playlistBasenames := make(map[string]bool)
	discFolderBasenames := make(map[string]bool)

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		lower := strings.ToLower(name)
		if !hasAcceptedExtension(lower, extensions) {
			continue
		}

		path := filepath.Join(romRoot, name)

		var rom *RomEntity
		var entityErr error

		switch {
		case entry.IsDir():
			rom, entityErr = buildDiscFolder(path)
			if rom != nil {
				stem := strings.TrimSuffix(rom.DisplayBasename, filepath.Ext(rom.DisplayBasename))
				discFolderBasenames[stem] = true
			}
		case strings.HasSuffix(lower, ".m3u"):
			rom, entityErr = buildPlaylist(path)
			if rom != nil {
				playlistBasenames[rom.DisplayBasename] = true
			}
		default:
			rom, entityErr = buildSingle(path)
		}

		if entityErr != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Basename: name,
				Reason:   entityErr.Error(),
			})
			log.Warn("skipping unreadable rom entry",
				logging.String(logging.FieldPlatform, platform.Name),
				logging.String(logging.FieldBasename, name),
				logging.Error(entityErr))
			continue
		}

		rom.Regions, rom.Languages = parseRegionsAndLanguages(rom.DisplayBasename)
		result.Entities = append(result.Entities, *rom)
	}

	result = dropBasenameCollisions(result)
	result = dropPlaylistDiscFolderConflicts(result, playlistBasenames, discFolderBasenames)

	return result, nil
}

func hasAcceptedExtension(lowerName string, extensions map[string]bool) bool {
	for ext := range extensions {
		if strings.HasSuffix(lowerName, ext) {
			return true
		}
	}
	return false
}

func buildSingle(path string) (*RomEntity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat rom file: %w", err)
	}
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return &RomEntity{
		Kind:            KindSingle,
		DisplayBasename: stem,
		PrimaryFile:     path,
		SizeBytes:       info.Size(),
	}, nil
}

func buildPlaylist(path string) (*RomEntity, error) {
	discs, err := parsePlaylist(path)
	if err != nil {
		return nil, err
	}
	disc1 := discs[0]
	info, err := os.Stat(disc1)
	if err != nil {
		return nil, fmt.Errorf("disc 1 not found for playlist %s: %w", filepath.Base(path), err)
	}

	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return &RomEntity{
		Kind:            KindPlaylist,
		DisplayBasename: stem,
		PrimaryFile:     disc1,
		AuxiliaryFiles:  discs[1:],
		SizeBytes:       info.Size(),
	}, nil
}

func buildDiscFolder(path string) (*RomEntity, error) {
	contained, err := matchDiscFolder(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(contained)
	if err != nil {
		return nil, fmt.Errorf("stat contained file: %w", err)
	}
	return &RomEntity{
		Kind:            KindDiscFolder,
		DisplayBasename: filepath.Base(path),
		PrimaryFile:     contained,
		SizeBytes:       info.Size(),
	}, nil
}

// dropBasenameCollisions removes every RomEntity that shares its display
// basename with another entity in the same scan.
func dropBasenameCollisions(result Result) Result {
	counts := make(map[string]int, len(result.Entities))
	for _, rom := range result.Entities {
		counts[rom.DisplayBasename]++
	}

	kept := result.Entities[:0]
	reported := make(map[string]bool)
	for _, rom := range result.Entities {
		if counts[rom.DisplayBasename] > 1 {
			if !reported[rom.DisplayBasename] {
				result.Conflicts = append(result.Conflicts, Conflict{
					Basename: rom.DisplayBasename,
					Reason:   "duplicate display basename",
				})
				reported[rom.DisplayBasename] = true
			}
			continue
		}
		kept = append(kept, rom)
	}
	result.Entities = kept
	return result
}

// dropPlaylistDiscFolderConflicts drops any playlist/disc-folder pair where
// the playlist's basename equals the disc folder's display basename with its
// extension removed, per §4.1's conservative rule.
func dropPlaylistDiscFolderConflicts(result Result, playlists, discFolders map[string]bool) Result {
	colliding := make(map[string]bool)
	for basename := range playlists {
		if discFolders[basename] {
			colliding[basename] = true
		}
	}
	if len(colliding) == 0 {
		return result
	}

	kept := result.Entities[:0]
	for _, rom := range result.Entities {
		key := rom.DisplayBasename
		if rom.Kind == KindDiscFolder {
			key = strings.TrimSuffix(key, filepath.Ext(key))
		}
		if colliding[key] {
			continue
		}
		kept = append(kept, rom)
	}
	result.Entities = kept

	for basename := range colliding {
		result.Conflicts = append(result.Conflicts, Conflict{
			Basename: basename,
			Reason:   "playlist and disc folder share a display basename",
		})
	}
	return result
}
