package scanner

// Kind classifies how a RomEntity is laid out on disk.
type Kind int

const (
	// KindSingle is a regular ROM file.
	KindSingle Kind = iota
	// KindPlaylist is an M3U playlist referencing one or more disc files.
	KindPlaylist
	// KindDiscFolder is a directory named with an accepted extension that
	// contains exactly one file matching its stem.
	KindDiscFolder
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindPlaylist:
		return "playlist"
	case KindDiscFolder:
		return "disc_folder"
	default:
		return "unknown"
	}
}

// RomEntity is one addressable game discovered during a platform scan.
type RomEntity struct {
	Kind Kind

	// DisplayBasename is the name media and catalog filenames are derived
	// from. For KindPlaylist this is the playlist's stem; for
	// KindDiscFolder it is the directory name including its extension.
	DisplayBasename string

	// PrimaryFile is the file used for size/hash identity: the ROM itself
	// for KindSingle, disc 1 for KindPlaylist, the matching contained file
	// for KindDiscFolder.
	PrimaryFile string

	// AuxiliaryFiles lists other files belonging to this entity (the
	// remaining discs of a playlist).
	AuxiliaryFiles []string

	Regions   []string
	Languages []string

	SizeBytes int64
}

// Conflict describes why one or more candidate entries were dropped during
// a scan.
type Conflict struct {
	Basename string
	Reason   string
}

// Result is the output of a platform scan.
type Result struct {
	Entities  []RomEntity
	Conflicts []Conflict
}
