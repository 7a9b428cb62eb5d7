package palette

import (
	"sort"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
)

// QuantizeKey packs the top five bits of each channel into a 15-bit bin key:
// (r>>3)<<10 | (g>>3)<<5 | (b>>3).
func QuantizeKey(c imaging.RGBColor) int {
	return int(c.R>>3)<<10 | int(c.G>>3)<<5 | int(c.B>>3)
}

// ColorBin is one quantization bucket with running channel sums.
type ColorBin struct {
	Key   int
	Count int
	SumR  int
	SumG  int
	SumB  int
}

// add returns the bin with one more sample folded in.
func (b ColorBin) add(c imaging.RGBColor) ColorBin {
	b.Count++
	b.SumR += int(c.R)
	b.SumG += int(c.G)
	b.SumB += int(c.B)
	return b
}

// Mean returns the bin's average color, rounded to the nearest level.
// An empty bin has a black mean.
func (b ColorBin) Mean() imaging.RGBColor {
	if b.Count <= 0 {
		return imaging.RGBColor{}
	}
	return imaging.RGBColor{
		R: uint8((2*b.SumR + b.Count) / (2 * b.Count)),
		G: uint8((2*b.SumG + b.Count) / (2 * b.Count)),
		B: uint8((2*b.SumB + b.Count) / (2 * b.Count)),
	}
}

// Histogram maps bin keys to bins. It is built in a single pass and treated
// as read-only afterwards.
type Histogram map[int]ColorBin

// Count returns the sample count for key, or zero.
func (h Histogram) Count(key int) int {
	return h[key].Count
}

// Total returns the number of samples across all bins.
func (h Histogram) Total() int {
	total := 0
	for _, b := range h {
		total += b.Count
	}
	return total
}

// Bins returns the bins ordered by key, which keeps downstream selection
// independent of map iteration order.
func (h Histogram) Bins() []ColorBin {
	bins := make([]ColorBin, 0, len(h))
	for _, b := range h {
		bins = append(bins, b)
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Key < bins[j].Key })
	return bins
}

// BackgroundEstimate is the inferred backdrop color of an image.
type BackgroundEstimate struct {
	Key  int              `json:"key"`
	Mean imaging.RGBColor `json:"mean"`
}

// Hex returns the estimate's mean color as "#RRGGBB".
func (e *BackgroundEstimate) Hex() string {
	return e.Mean.Hex()
}
