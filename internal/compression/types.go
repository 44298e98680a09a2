package compression

// Mode selects how compression parameters are chosen for a request.
type Mode string

const (
	// ModePreset applies one of the named quality/resolution presets.
	ModePreset Mode = "preset"
	// ModeCustom uses the quality and resolution given in the request.
	ModeCustom Mode = "custom"
	// ModeTargetSize searches for the highest quality that fits a byte budget.
	ModeTargetSize Mode = "target-size"
)

// Strategy identifies which compression path produced a result.
type Strategy string

const (
	// StrategyNone means the original bytes were returned unchanged.
	StrategyNone Strategy = "none"
	// StrategyStructural means the document was repacked without touching page content.
	StrategyStructural Strategy = "structural"
	// StrategyRaster means pages were re-rendered as lossy images.
	StrategyRaster Strategy = "raster"
)

// RasterSizeThreshold is the size above which the raster strategy is attempted.
// Below it, rasterizing costs more than it saves.
const RasterSizeThreshold = 100 << 10

// ProgressFunc receives page-level progress while a single document is being
// compressed. current counts completed pages, total is the page count. Values
// are monotonically non-decreasing within one compression call.
type ProgressFunc func(current, total int)

// Request describes a single-document compression job.
type Request struct {
	Mode          Mode   `json:"mode"`
	Preset        string `json:"preset,omitempty"`
	Quality       int    `json:"quality,omitempty"`
	ImageDPI      int    `json:"image_dpi,omitempty"`
	StripMetadata bool   `json:"strip_metadata"`
	Grayscale     bool   `json:"grayscale"`
	Thumbnail     bool   `json:"thumbnail"`
	TargetSize    int64  `json:"target_size,omitempty"`

	// OnProgress may be nil.
	OnProgress ProgressFunc `json:"-"`
}

// progress reports page progress if a callback is set.
func (r Request) progress(current, total int) {
	if r.OnProgress != nil {
		r.OnProgress(current, total)
	}
}

// Result is the outcome of compressing one document.
type Result struct {
	Data           []byte   `json:"-"`
	OriginalSize   int64    `json:"original_size"`
	CompressedSize int64    `json:"compressed_size"`
	PageCount      int      `json:"page_count"`
	Strategy       Strategy `json:"strategy"`
	Quality        int      `json:"quality"`
	// MetTarget reports whether a target-size request fit its budget. It is
	// always true for preset and custom requests.
	MetTarget bool `json:"met_target"`
	// Thumbnail is a PNG preview of the first page when requested, nil otherwise.
	Thumbnail []byte `json:"-"`
}

// Ratio returns the space saved as a percentage of the original size.
func (r *Result) Ratio() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return float64(r.OriginalSize-r.CompressedSize) / float64(r.OriginalSize) * 100
}

// Preset is a named quality/resolution combination.
type Preset struct {
	Name     string `json:"name"`
	Quality  int    `json:"quality"`
	ImageDPI int    `json:"image_dpi"`
}

// DefaultPreset is used when a preset request names none.
const DefaultPreset = "good_enough"

var presets = []Preset{
	{Name: "good_enough", Quality: 85, ImageDPI: 150},
	{Name: "aggressive", Quality: 60, ImageDPI: 120},
	{Name: "ultra", Quality: 40, ImageDPI: 96},
}

// PresetByName looks up a preset by its name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Presets returns the known presets in order of decreasing quality.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Metadata holds the document information fields the engine reads and writes.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// IsZero reports whether no metadata field is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// PageSize is a page box in PDF points (1/72 inch).
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
