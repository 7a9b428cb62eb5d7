package imaging

import "math"

// MaxSampleRadius is the largest neighborhood radius SampleBuffer accepts.
const MaxSampleRadius = 10

// SampleBuffer averages the pixels under a normalized coordinate.
//
// Parameters:
//   - buf: Source pixels.
//   - xRel, yRel: Normalized position in [0,1]; values outside are clamped.
//   - radius: Neighborhood radius in buffer pixels, clamped to 0-10.
//
// Returns the rounded mean color as "#RRGGBB", or false if buf is unusable.
//
// # Coordinate Mapping
//
// The position maps to pixel (round(xRel*(W-1)), round(yRel*(H-1))). With a
// radius of zero that single pixel is returned; otherwise every pixel whose
// Euclidean distance from the center is at most radius (a disc, clipped to
// the image) contributes equally.
func SampleBuffer(buf *PixelBuffer, xRel, yRel float64, radius int) (string, bool) {
	if !buf.Valid() || math.IsNaN(xRel) || math.IsNaN(yRel) {
		return "", false
	}

	radius = clamp(radius, 0, MaxSampleRadius)
	cx := int(math.Round(clampFloat(xRel, 0, 1) * float64(buf.Width-1)))
	cy := int(math.Round(clampFloat(yRel, 0, 1) * float64(buf.Height-1)))

	if radius == 0 {
		return buf.At(cx, cy).Hex(), true
	}

	var sumR, sumG, sumB, n int
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		y := cy + dy
		if y < 0 || y >= buf.Height {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			x := cx + dx
			if x < 0 || x >= buf.Width || dx*dx+dy*dy > r2 {
				continue
			}
			c := buf.At(x, y)
			sumR += int(c.R)
			sumG += int(c.G)
			sumB += int(c.B)
			n++
		}
	}

	return RGBColor{
		R: roundMean(sumR, n),
		G: roundMean(sumG, n),
		B: roundMean(sumB, n),
	}.Hex(), true
}

// roundMean returns sum/n rounded half up. n is always at least 1 here
// because the center pixel is inside the disc.
func roundMean(sum, n int) uint8 {
	return uint8((2*sum + n) / (2 * n))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
