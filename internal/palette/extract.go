package palette

import (
	"context"
	"sort"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
)

// Result is the outcome of Extract.
type Result struct {
	// Colors holds at most the requested number of "#RRGGBB" strings, dark to light.
	Colors []string `json:"colors"`

	// Background is the estimated backdrop, or nil if none could be inferred.
	Background *BackgroundEstimate `json:"background,omitempty"`

	// Filtered reports whether background pixels were excluded from the histogram.
	Filtered bool `json:"filtered"`

	// Relaxed reports that the minimum separation could not be met for every pair.
	Relaxed bool `json:"relaxed"`

	// Fallback reports that the colors came from the catalog, not the image.
	Fallback bool `json:"fallback"`
}

// Extract derives a palette of up to count colors from buf.
//
// Parameters:
//   - ctx: Checked between pipeline stages.
//   - buf: Source pixels. An unusable buffer yields the catalog fallback.
//   - count: Desired palette size; zero or less selects DefaultColorCount.
//   - catalog: Hex colors used for the fallback palette.
//   - opts: Tuning; zero fields select defaults.
//
// Returns:
//   - Result: Never empty for count > 0.
//   - error: Only ctx.Err() when the context is done.
//
// # Pipeline
//
//  1. Build an unfiltered whole-image histogram.
//  2. Estimate the background from the border, ranked against step 1.
//  3. Rebuild the histogram without background pixels, using a luminance
//     adaptive distance. If that leaves fewer than MinFilteredBins bins, the
//     filter is abandoned and the unfiltered histogram is used. The
//     background avoid distance is dropped with it, so a flat backdrop may
//     appear in the palette; Result.Filtered is false in that case.
//  4. Select dominant colors (see SelectDominant).
//  5. If nothing usable remains, fall back to FallbackPalette.
func Extract(ctx context.Context, buf *imaging.PixelBuffer, count int, catalog []string, opts Options) (Result, error) {
	opts = opts.normalized()
	if count <= 0 {
		count = DefaultColorCount
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if !buf.Valid() {
		return Result{Colors: FallbackPalette(catalog, count), Fallback: true}, nil
	}

	global := BuildHistogram(buf, nil, opts.HistogramSamples)
	bg := EstimateBackground(buf, global, opts)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Background: bg}
	hist := global
	var avoid *Avoid
	if bg != nil {
		threshold := BackgroundThreshold(bg.Mean)
		filtered := BuildHistogram(buf, &HistogramFilter{Background: bg, DistanceSq: threshold}, opts.HistogramSamples)
		if len(filtered) >= opts.MinFilteredBins {
			hist = filtered
			avoid = &Avoid{Color: bg.Mean, DistanceSq: threshold}
			res.Filtered = true
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sel := SelectDominant(hist.Bins(), count, avoid, opts)
	if len(sel.Colors) == 0 {
		res.Colors = FallbackPalette(catalog, count)
		res.Fallback = true
		return res, nil
	}

	res.Colors = make([]string, len(sel.Colors))
	for i, c := range sel.Colors {
		res.Colors[i] = c.Hex()
	}
	res.Relaxed = sel.Relaxed
	return res, nil
}

// FallbackPalette returns count colors drawn from catalog in order, skipping
// malformed and repeated entries, padded with NeutralHex once the catalog is
// exhausted. The result is sorted dark to light like any extracted palette.
func FallbackPalette(catalog []string, count int) []string {
	if count <= 0 {
		return nil
	}

	out := make([]string, 0, count)
	seen := make(map[string]bool, count)
	for _, h := range catalog {
		if len(out) == count {
			break
		}
		norm, ok := imaging.NormalizeHex(h)
		if !ok || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	for len(out) < count {
		out = append(out, NeutralHex)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ci, _ := imaging.ParseHex(out[i])
		cj, _ := imaging.ParseHex(out[j])
		return imaging.Luminance(ci) < imaging.Luminance(cj)
	})
	return out
}
