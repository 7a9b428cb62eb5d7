package imaging

import "context"

// Locator defaults.
const (
	// MaxMarkers is the number of target colors LocateMarkers searches for.
	MaxMarkers = 5

	// DefaultLocateSamples is the approximate number of pixels visited.
	DefaultLocateSamples = 45000

	// DefaultSafeMargin keeps markers away from the image edges, in pixels.
	DefaultSafeMargin = 35
)

// Position is a normalized image coordinate; X and Y lie in [0,1].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FallbackPosition returns the evenly spaced row slot used for the k-th
// marker when no pixel could be matched: {(k+1)/6, 0.5}.
func FallbackPosition(k int) Position {
	return Position{X: float64(k+1) / 6, Y: 0.5}
}

// LocateOptions tunes LocateMarkers. Zero fields select the defaults.
type LocateOptions struct {
	TargetSamples int
	SafeMargin    int
}

func (o LocateOptions) normalized() LocateOptions {
	if o.TargetSamples <= 0 {
		o.TargetSamples = DefaultLocateSamples
	}
	if o.SafeMargin < 0 {
		o.SafeMargin = 0
	} else if o.SafeMargin == 0 {
		o.SafeMargin = DefaultSafeMargin
	}
	return o
}

// LocateMarkers finds, for each target color, the sampled pixel closest to it.
//
// Returns one Position per target, in input order. Only the first MaxMarkers
// targets are searched; later targets, targets with no recorded match and
// every target of an unusable buffer get FallbackPosition(k).
func LocateMarkers(ctx context.Context, buf *PixelBuffer, targets []RGBColor, opts LocateOptions) []Position {
	searched := targets
	if len(searched) > MaxMarkers {
		searched = searched[:MaxMarkers]
	}
	found, ok := NearestPixels(ctx, buf, searched, opts)

	out := make([]Position, len(targets))
	for k := range out {
		if k < len(ok) && ok[k] {
			out[k] = found[k]
		} else {
			out[k] = FallbackPosition(k)
		}
	}
	return out
}

// NearestPixels scans buf once and records, per target, the normalized
// position of the sampled pixel with the smallest squared distance.
//
// The second slice reports which targets recorded a pixel at all; it is all
// false for an unusable buffer. A canceled context stops the scan early and
// keeps whatever was found so far.
//
// # Algorithm
//
// Pixels are visited on a square grid whose step keeps the visit count near
// TargetSamples over the scanned region. When both dimensions exceed twice SafeMargin, the scan is
// restricted to the inner region inset by SafeMargin on every edge so markers
// never land under the image border. Ties keep the first pixel found in
// row-major order.
func NearestPixels(ctx context.Context, buf *PixelBuffer, targets []RGBColor, opts LocateOptions) ([]Position, []bool) {
	opts = opts.normalized()
	out := make([]Position, len(targets))
	found := make([]bool, len(targets))
	if !buf.Valid() || len(targets) == 0 {
		return out, found
	}

	x0, y0, x1, y1 := 0, 0, buf.Width, buf.Height
	if m := opts.SafeMargin; buf.Width > 2*m && buf.Height > 2*m {
		x0, y0, x1, y1 = m, m, buf.Width-m, buf.Height-m
	}

	step := SampleStep((x1-x0)*(y1-y0), opts.TargetSamples)
	xs := GridCoords(x0, x1, step)

	best := make([]int, len(targets))
	bestX := make([]int, len(targets))
	bestY := make([]int, len(targets))

	for _, y := range GridCoords(y0, y1, step) {
		if ctx.Err() != nil {
			break
		}
		for _, x := range xs {
			c := buf.At(x, y)
			for k, target := range targets {
				d := SquaredDistance(c, target)
				if !found[k] || d < best[k] {
					best[k], found[k] = d, true
					bestX[k], bestY[k] = x, y
				}
			}
		}
	}

	for k := range targets {
		if !found[k] {
			continue
		}
		out[k] = Position{
			X: clampFloat(float64(bestX[k])/float64(maxInt(buf.Width-1, 1)), 0, 1),
			Y: clampFloat(float64(bestY[k])/float64(maxInt(buf.Height-1, 1)), 0, 1),
		}
	}
	return out, found
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
