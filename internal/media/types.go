package media

// TypeConfig describes one enabled media type's selection and layout
// rules. Regionless is set for types like video and fanart that are
// never filtered by region.
type TypeConfig struct {
	ProviderType string // ScreenScraper media type, e.g. "box-2D"
	DirName      string // downstream frontend's directory name for this type
	Regionless   bool
	MinSizeBytes int64 // reject a download below this floor
	IsImage      bool  // decode-validate the downloaded bytes as an image
}

// DefaultTypes is the closed mapping from ScreenScraper media type to
// downstream-frontend directory, covering the common EmulationStation
// asset set. Operators enable a subset via config; this is ground truth
// for the directory names, not an exhaustive list of every type
// ScreenScraper offers.
var DefaultTypes = []TypeConfig{
	{ProviderType: "box-2D", DirName: "covers", MinSizeBytes: 256, IsImage: true},
	{ProviderType: "ss", DirName: "screenshots", MinSizeBytes: 256, IsImage: true},
	{ProviderType: "sstitle", DirName: "titlescreens", MinSizeBytes: 256, IsImage: true},
	{ProviderType: "screenmarquee", DirName: "marquees", Regionless: true, MinSizeBytes: 256, IsImage: true},
	{ProviderType: "box-3D", DirName: "3dboxes", MinSizeBytes: 256, IsImage: true},
	{ProviderType: "box-2D-back", DirName: "backcovers", MinSizeBytes: 256, IsImage: true},
	{ProviderType: "fanart", DirName: "fanart", Regionless: true, MinSizeBytes: 256, IsImage: true},
	{ProviderType: "manuel", DirName: "manuals", MinSizeBytes: 256},
	{ProviderType: "support-2D", DirName: "physicalmedia", MinSizeBytes: 256, IsImage: true},
	{ProviderType: "video", DirName: "videos", Regionless: true, MinSizeBytes: 1024},
	{ProviderType: "wheel", DirName: "wheels", Regionless: true, MinSizeBytes: 256, IsImage: true},
}
