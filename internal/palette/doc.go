// Package palette derives a small set of perceptually distinct dominant
// colors from a decoded image.
//
// Extraction runs in stages over a PixelBuffer:
//
//   - Histogram: pixels are sampled on a grid and bucketed into 15-bit bins
//     (five bits per channel). Near-white pixels are never counted.
//   - Background: the image border is sampled and its most common bins are
//     re-ranked against the whole-image histogram to estimate the backdrop.
//   - Filtering: the histogram is rebuilt without pixels close to the
//     backdrop, using a distance that depends on backdrop luminance. When too
//     few bins survive, the unfiltered histogram is used instead.
//   - Selection: candidates are seeded with a strong accent and the most
//     frequent color, then grown by farthest-point sampling weighted by
//     saturation and frequency.
//
// All distances are compared squared. Bins are always visited in key order
// and ties are broken by key, so the same pixels always yield the same
// palette.
package palette
