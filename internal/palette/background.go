package palette

import (
	"sort"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
)

// EstimateBackground infers a single dominant backdrop color from the image border.
//
// Parameters:
//   - buf: Source pixels.
//   - global: Whole-image histogram used to re-rank border bins. May be nil.
//   - opts: Tuning; zero fields select defaults.
//
// Returns nil when the image is too small (width or height <= 2) or no border
// pixel was collected.
//
// # Algorithm
//
//  1. Walk the four edges with a stride proportional to max(width, height),
//     aiming for about BorderSamples pixels, and bucket each into a 15-bit bin.
//  2. Keep the BorderTopBins most frequent border bins.
//  3. Re-rank them by GlobalWeight*globalCount + borderCount, so a border color
//     that is also common across the whole image beats a thin frame or vignette.
//
// Ties are broken by the lower bin key.
func EstimateBackground(buf *imaging.PixelBuffer, global Histogram, opts Options) *BackgroundEstimate {
	opts = opts.normalized()
	if !buf.Valid() || buf.Width <= 2 || buf.Height <= 2 {
		return nil
	}

	border := borderHistogram(buf, opts.BorderSamples)
	if len(border) == 0 {
		return nil
	}

	bins := border.Bins()
	sort.SliceStable(bins, func(i, j int) bool { return bins[i].Count > bins[j].Count })
	if len(bins) > opts.BorderTopBins {
		bins = bins[:opts.BorderTopBins]
	}

	score := func(b ColorBin) int {
		return opts.GlobalWeight*global.Count(b.Key) + b.Count
	}
	best := bins[0]
	for _, b := range bins[1:] {
		s, bs := score(b), score(best)
		if s > bs || (s == bs && b.Key < best.Key) {
			best = b
		}
	}

	return &BackgroundEstimate{Key: best.Key, Mean: best.Mean()}
}

// borderHistogram buckets pixels sampled along the four image edges.
func borderHistogram(buf *imaging.PixelBuffer, target int) Histogram {
	w, h := buf.Width, buf.Height
	longest := w
	if h > longest {
		longest = h
	}
	// The perimeter is at most 4*longest pixels.
	stride := 4 * longest / target
	if stride < 1 {
		stride = 1
	}

	hist := make(Histogram)
	visit := func(x, y int) {
		c := buf.At(x, y)
		k := QuantizeKey(c)
		b := hist[k]
		b.Key = k
		hist[k] = b.add(c)
	}

	for x := 0; x < w; x += stride {
		visit(x, 0)
		visit(x, h-1)
	}
	for y := stride; y < h-1; y += stride {
		visit(0, y)
		visit(w-1, y)
	}
	return hist
}
