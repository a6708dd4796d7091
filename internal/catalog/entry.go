package catalog

// CatalogEntry is the persisted record for one RomEntity. Fields are
// grouped into three classes per the data model: user-owned fields are
// never written by the engine once a prior value exists; provider-owned
// fields are replaced wholesale by fresh provider data (never blanked by
// an empty provider value); provenance records what the engine used the
// last time it acted, for change detection on the next run.
type CatalogEntry struct {
	// DisplayBasename is the merge key; it is not itself a gamelist field,
	// it's derived from Path.
	DisplayBasename string
	Path            string // relative ROM path, e.g. "./Game.zip"

	// User-owned. Preserved verbatim from the prior entry; never set from
	// a provider response.
	Favorite   bool
	PlayCount  *int
	LastPlayed string
	Hidden     bool

	// Provider-owned.
	ProviderID  string
	Name        string
	Description string
	Rating      *float64 // 0.0-1.0
	ReleaseDate string   // YYYYMMDDTHHMMSS
	Developer   string
	Publisher   string
	Genres      []string
	Players     string

	// MediaPaths maps a gamelist field tag (e.g. "image", "thumbnail") to
	// the media file path written under it; MediaTag gives the tag for a
	// Provider media type. Tags with no media are absent from the map.
	MediaPaths map[string]string

	// Provenance is engine-private bookkeeping, never emitted into the
	// gamelist itself; it lives in the sidecar file (see provenance.go).
	Provenance Provenance

	// Extra holds unknown sub-elements found in the existing gamelist
	// (sortname, kidgame, altemulator, and anything else outside the
	// known schema), preserved verbatim across merge and re-emitted on
	// write, sorted by tag name.
	Extra []RawElement
}

// FieldsComplete reports whether the provider-owned fields are populated
// enough that the evaluator can treat this entry as already scraped. A
// record id without a name (or vice versa) means a prior run was
// interrupted mid-write or the entry was hand-edited; either way it is
// not "complete".
func (e CatalogEntry) FieldsComplete() bool {
	return e.ProviderID != "" && e.Name != ""
}

// mediaTypeToTag maps a Provider media type to the gamelist field tag
// it is written under. Closed mapping per the supplemented media-type
// set; types with no downstream-frontend tag are carried as files on
// disk only (not referenced from the gamelist).
var mediaTypeToTag = map[string]string{
	"box-2D":         "image",
	"ss":             "thumbnail",
	"sstitle":        "titleshot",
	"screenmarquee":  "marquee",
	"box-3D":         "box3d",
	"box-2D-back":    "backcover",
	"fanart":         "fanart",
	"manuel":         "manual",
	"support-2D":     "physicalmedia",
	"video":          "video",
	"wheel":          "marquee", // ES-DE has no dedicated wheel tag; wheel art rides the marquee slot
}

// MediaTag returns the gamelist field tag for a Provider media type, and
// whether one exists.
func MediaTag(mediaType string) (string, bool) {
	tag, ok := mediaTypeToTag[mediaType]
	return tag, ok
}

// RawElement preserves one unrecognized XML child verbatim: its name,
// attributes, and inner XML (text or nested markup), so merge and
// re-write never lose information the engine doesn't understand.
type RawElement struct {
	Tag   string
	Attrs []Attr
	Inner string
}

// Attr is a single XML attribute, kept alongside RawElement since
// encoding/xml's xml.Attr pulls in a namespace-qualified xml.Name we
// don't need here.
type Attr struct {
	Name  string
	Value string
}
