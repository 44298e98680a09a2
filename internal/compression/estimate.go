package compression

import "math"

// Estimator tuning. The bias reflects that quality dominates output size and
// resolution gains flatten out past 300 DPI.
const (
	estimateBias    = 0.7
	estimateFloor   = 0.05
	estimateFullDPI = 300
)

// Estimate predicts the compressed size for a document of originalSize bytes
// at the given quality and resolution. It is a heuristic for user feedback and
// never decodes the document: quality contributes quadratically, resolution
// linearly up to 300 DPI, and the prediction never drops below 5% of the
// original.
func Estimate(originalSize int64, quality, imageDPI int) int64 {
	q := float64(quality) / 100
	dpi := math.Min(float64(imageDPI)/estimateFullDPI, 1)
	factor := math.Max(estimateFloor, q*q*dpi*estimateBias)
	return int64(float64(originalSize) * factor)
}

// EstimatePreset is Estimate with the parameters of a named preset. Unknown
// names fall back to the default preset.
func EstimatePreset(originalSize int64, name string) int64 {
	p, ok := PresetByName(name)
	if !ok {
		p, _ = PresetByName(DefaultPreset)
	}
	return Estimate(originalSize, p.Quality, p.ImageDPI)
}
