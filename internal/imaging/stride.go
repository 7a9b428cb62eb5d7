package imaging

import "math"

// SampleStep returns the grid spacing that visits about target of total
// pixels when applied along both axes. It is never below 1; a non-positive
// target samples every pixel.
func SampleStep(total, target int) float64 {
	if target <= 0 || total <= target {
		return 1
	}
	return math.Sqrt(float64(total) / float64(target))
}

// GridCoords returns the coordinates in [lo,hi) visited at step, starting
// at lo. Fractional steps are floored per position, so the visit count is
// about (hi-lo)/step.
func GridCoords(lo, hi int, step float64) []int {
	if hi <= lo {
		return nil
	}
	if step < 1 || math.IsNaN(step) {
		step = 1
	}
	out := make([]int, 0, int(float64(hi-lo)/step)+1)
	for i := 0; ; i++ {
		v := lo + int(float64(i)*step)
		if v >= hi {
			break
		}
		out = append(out, v)
	}
	return out
}
