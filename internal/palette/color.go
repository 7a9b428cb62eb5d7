package palette

import (
	"fmt"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
	"github.com/ironsheep/paint-palette-mcp/internal/paint"
)

// PaletteColor is one derived color as handed to the presentation layer.
//
// Label, Position and Angle are owned downstream once created; Angle is only
// carried, never computed here.
type PaletteColor struct {
	ID       string              `json:"id"`
	Label    string              `json:"label"`
	Hex      string              `json:"hex"`
	Position imaging.Position    `json:"position"`
	Angle    float64             `json:"angle"`
	Match    *paint.MatchedPaint `json:"match,omitempty"`
}

// NewPaletteColor validates hex and clamps the position into [0,1]².
// Malformed hex is rejected so it is never persisted.
func NewPaletteColor(id, label, hex string, pos imaging.Position, angle float64) (PaletteColor, error) {
	norm, ok := imaging.NormalizeHex(hex)
	if !ok {
		return PaletteColor{}, fmt.Errorf("invalid hex color %q", hex)
	}
	return PaletteColor{
		ID:    id,
		Label: label,
		Hex:   norm,
		Position: imaging.Position{
			X: clampUnit(pos.X),
			Y: clampUnit(pos.Y),
		},
		Angle: angle,
	}, nil
}

func clampUnit(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
