package paint

import (
	"math"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
)

// DefaultThreshold is the probable-match distance in plain RGB units.
const DefaultThreshold = 42.0

// Match resolves a color against the user's paints and the reference catalog.
//
// Parameters:
//   - hex: The color to match, 3- or 6-digit, with or without '#'.
//   - owned: The user's paints. An identical hex here is an exact match.
//   - catalog: Reference paints searched for the nearest color.
//   - threshold: Maximum Euclidean RGB distance for a probable match.
//     Zero or less selects DefaultThreshold.
//
// Returns the match and true, or nil and false when hex is malformed or no
// catalog paint is close enough. Neither case is an error. Owned and catalog
// entries with malformed hex are ignored.
//
// # Matching Order
//
//  1. Exact: the first owned paint whose normalized hex equals the input
//     yields {ID: paint.ID, Kind: exact, Owned: true}.
//  2. Probable: the nearest catalog paint (first wins on ties) within
//     threshold yields {ID: SourceID, Kind: probable}, with Owned set when the
//     user also owns a paint of that exact catalog color.
func Match(hex string, owned []PaintRecord, catalog []CatalogPaintRecord, threshold float64) (*MatchedPaint, bool) {
	target, ok := imaging.ParseHex(hex)
	if !ok {
		return nil, false
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	ownedHex := make(map[string]bool, len(owned))
	for _, p := range owned {
		c, ok := imaging.ParseHex(p.Hex)
		if !ok {
			continue
		}
		if c == target {
			return &MatchedPaint{ID: p.ID, Name: p.Name, Kind: MatchExact, Owned: true}, true
		}
		ownedHex[c.Hex()] = true
	}

	best, bestDist := -1, math.MaxInt
	var bestColor imaging.RGBColor
	for i, p := range catalog {
		c, ok := imaging.ParseHex(p.Hex)
		if !ok {
			continue
		}
		if d := imaging.SquaredDistance(target, c); d < bestDist {
			best, bestDist, bestColor = i, d, c
		}
	}
	if best < 0 || math.Sqrt(float64(bestDist)) > threshold {
		return nil, false
	}

	p := catalog[best]
	return &MatchedPaint{
		ID:    p.SourceID,
		Name:  p.Name,
		Kind:  MatchProbable,
		Owned: ownedHex[bestColor.Hex()],
	}, true
}
