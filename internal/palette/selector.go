package palette

import (
	"math"
	"sort"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
)

// Selection is the outcome of SelectDominant.
type Selection struct {
	// Colors are ordered by ascending luminance.
	Colors []imaging.RGBColor

	// Relaxed is set when colors closer than MinSeparation had to be accepted
	// (seed pair or the RelaxedSeparation pass). RelaxedSeparation still holds.
	Relaxed bool

	// ByCount is set when no bin qualified as a candidate and the most
	// frequent bins were taken without the diversity rules.
	ByCount bool
}

// Avoid excludes bins whose mean lies within sqrt(DistanceSq) of Color.
type Avoid struct {
	Color      imaging.RGBColor
	DistanceSq int
}

type candidate struct {
	bin  ColorBin
	mean imaging.RGBColor
	sat  int
}

// SelectDominant picks up to n frequent, mutually distinct colors from bins,
// guaranteeing a strong accent color a place when one exists.
//
// Parameters:
//   - bins: Histogram bins, ideally from Histogram.Bins so order is stable.
//   - n: Desired palette size.
//   - avoid: Optional background color to keep out of the palette.
//   - opts: Tuning; zero fields select defaults.
//
// # Algorithm
//
//  1. Drop near-white bins and bins within the avoid distance.
//  2. A bin is a candidate if its count exceeds max(MinFrequencyFloor,
//     MinFrequencyRatio*total), or if it is a strong accent (saturation above
//     AccentSaturation with at least AccentCountRatio of that cutoff).
//  3. Seed with the most saturated candidate above SeedAccentSaturation.
//  4. Add the most frequent candidate unless it is within SeedSeparation of
//     the accent seed.
//  5. Greedy farthest-point growth: candidates nearer than MinSeparation to a
//     picked color are rejected; the rest score
//     sqrt(dmin) * (1 + 1.4*sat/255) * (0.6 + 0.6*count/maxCount).
//  6. Still short: accept remaining candidates, most frequent first, that are
//     at least RelaxedSeparation from every pick.
//  7. Drop any color within DedupSeparation of an earlier one.
//  8. Sort by luminance, dark to light.
//
// If no bin is a candidate, the n most frequent usable bins are returned
// instead. An empty Selection means the histogram had nothing usable.
func SelectDominant(bins []ColorBin, n int, avoid *Avoid, opts Options) Selection {
	opts = opts.normalized()
	if n <= 0 || len(bins) == 0 {
		return Selection{}
	}

	total := 0
	for _, b := range bins {
		total += b.Count
	}

	usable := make([]candidate, 0, len(bins))
	for _, b := range bins {
		if b.Count <= 0 {
			continue
		}
		m := b.Mean()
		if imaging.IsNearWhite(m) {
			continue
		}
		if avoid != nil && imaging.SquaredDistance(m, avoid.Color) < avoid.DistanceSq {
			continue
		}
		usable = append(usable, candidate{bin: b, mean: m, sat: imaging.Saturation(m)})
	}
	if len(usable) == 0 {
		return Selection{}
	}

	base := math.Max(float64(opts.MinFrequencyFloor), opts.MinFrequencyRatio*float64(total))
	cands := make([]candidate, 0, len(usable))
	for _, c := range usable {
		frequent := float64(c.bin.Count) > base
		accent := c.sat > opts.AccentSaturation && float64(c.bin.Count) >= opts.AccentCountRatio*base
		if frequent || accent {
			cands = append(cands, c)
		}
	}

	if len(cands) == 0 {
		return Selection{Colors: finish(byCount(usable, n), n, opts), ByCount: true}
	}

	var (
		picked  []candidate
		used    = make([]bool, len(cands))
		relaxed bool
	)
	pick := func(i int) {
		used[i] = true
		picked = append(picked, cands[i])
	}

	accent, top := -1, 0
	for i, c := range cands {
		if c.sat > opts.SeedAccentSaturation {
			if accent < 0 || c.sat > cands[accent].sat ||
				(c.sat == cands[accent].sat && c.bin.Count > cands[accent].bin.Count) {
				accent = i
			}
		}
		if c.bin.Count > cands[top].bin.Count {
			top = i
		}
	}

	if accent >= 0 {
		pick(accent)
	}
	if top != accent && len(picked) < n {
		if accent < 0 {
			pick(top)
		} else if d := imaging.SquaredDistance(cands[top].mean, cands[accent].mean); d >= sq(opts.SeedSeparation) {
			pick(top)
			if d < sq(opts.MinSeparation) {
				relaxed = true
			}
		}
	}

	maxCount := cands[top].bin.Count
	minSep := sq(opts.MinSeparation)
	for len(picked) < n {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			dmin := nearest(c.mean, picked)
			if dmin < minSep {
				continue
			}
			satNorm := float64(c.sat) / 255
			freqNorm := float64(c.bin.Count) / float64(maxCount)
			score := math.Sqrt(float64(dmin)) *
				(1 + opts.SaturationWeight*satNorm) *
				(opts.FrequencyBase + opts.FrequencyWeight*freqNorm)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		pick(best)
	}

	if len(picked) < n {
		order := make([]int, 0, len(cands))
		for i := range cands {
			if !used[i] {
				order = append(order, i)
			}
		}
		sort.SliceStable(order, func(a, b int) bool {
			return cands[order[a]].bin.Count > cands[order[b]].bin.Count
		})

		relaxedSep := sq(opts.RelaxedSeparation)
		for _, i := range order {
			if len(picked) >= n {
				break
			}
			if nearest(cands[i].mean, picked) >= relaxedSep {
				pick(i)
				relaxed = true
			}
		}
	}

	return Selection{Colors: finish(picked, n, opts), Relaxed: relaxed}
}

// byCount returns the n most frequent candidates; ties keep key order.
func byCount(cs []candidate, n int) []candidate {
	sorted := append([]candidate(nil), cs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].bin.Count > sorted[j].bin.Count })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// finish removes near duplicates, caps the list at n and sorts dark to light.
func finish(picked []candidate, n int, opts Options) []imaging.RGBColor {
	dedup := sq(opts.DedupSeparation)
	kept := make([]candidate, 0, len(picked))
	for _, c := range picked {
		if len(kept) > 0 && nearest(c.mean, kept) < dedup {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) > n {
		kept = kept[:n]
	}

	sort.SliceStable(kept, func(i, j int) bool {
		li, lj := imaging.Luminance(kept[i].mean), imaging.Luminance(kept[j].mean)
		if li != lj {
			return li < lj
		}
		return kept[i].bin.Key < kept[j].bin.Key
	})

	out := make([]imaging.RGBColor, len(kept))
	for i, c := range kept {
		out[i] = c.mean
	}
	return out
}

// nearest returns the squared distance from c to the closest picked color,
// or math.MaxInt when nothing is picked.
func nearest(c imaging.RGBColor, picked []candidate) int {
	d := math.MaxInt
	for _, p := range picked {
		if v := imaging.SquaredDistance(c, p.mean); v < d {
			d = v
		}
	}
	return d
}

func sq(v int) int { return v * v }
