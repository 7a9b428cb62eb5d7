package palette

import (
	"math"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
)

// Background distance bands, in plain RGB units.
const (
	darkBackgroundLuminance  = 55
	lightBackgroundLuminance = 200

	darkBackgroundDistance  = 110
	midBackgroundDistanceLo = 55
	midBackgroundDistanceHi = 75
	lightBackgroundDistance = 70
)

// BackgroundThreshold returns the squared distance under which a pixel is
// considered part of the background.
//
// Dark backdrops get the loosest band (110) because compression noise in
// shadows spreads widely; light, near-white backdrops get 70; mid-tones
// scale linearly from 55 at luminance 55 to 75 at luminance 200.
func BackgroundThreshold(bg imaging.RGBColor) int {
	lum := imaging.Luminance(bg)

	var d float64
	switch {
	case lum < darkBackgroundLuminance:
		d = darkBackgroundDistance
	case lum >= lightBackgroundLuminance:
		d = lightBackgroundDistance
	default:
		t := (lum - darkBackgroundLuminance) / (lightBackgroundLuminance - darkBackgroundLuminance)
		d = midBackgroundDistanceLo + t*(midBackgroundDistanceHi-midBackgroundDistanceLo)
	}
	return int(math.Round(d * d))
}

// HistogramFilter describes the background pixels BuildHistogram skips.
type HistogramFilter struct {
	Background *BackgroundEstimate
	DistanceSq int
}

// BuildHistogram buckets a grid sample of the image into 15-bit color bins.
//
// Parameters:
//   - buf: Source pixels.
//   - filter: When non-nil with a Background, pixels in the background bin or
//     closer than DistanceSq to the background mean are skipped.
//   - targetSamples: Approximate number of pixels visited. Zero or less visits
//     every pixel.
//
// Near-white pixels are always skipped. The result is built in one pass and
// must not be modified by callers.
func BuildHistogram(buf *imaging.PixelBuffer, filter *HistogramFilter, targetSamples int) Histogram {
	hist := make(Histogram)
	if !buf.Valid() {
		return hist
	}

	var bg *BackgroundEstimate
	distSq := 0
	if filter != nil && filter.Background != nil {
		bg, distSq = filter.Background, filter.DistanceSq
	}

	step := imaging.SampleStep(buf.Width*buf.Height, targetSamples)
	xs := imaging.GridCoords(0, buf.Width, step)
	for _, y := range imaging.GridCoords(0, buf.Height, step) {
		for _, x := range xs {
			c := buf.At(x, y)
			if imaging.IsNearWhite(c) {
				continue
			}
			k := QuantizeKey(c)
			if bg != nil && (k == bg.Key || imaging.SquaredDistance(c, bg.Mean) < distSq) {
				continue
			}
			b := hist[k]
			b.Key = k
			hist[k] = b.add(c)
		}
	}
	return hist
}
