package imaging

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// hexPattern accepts 3- or 6-digit hex colors with an optional leading '#'.
var hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NearWhiteLevel is the per-channel level above which a pixel counts as near-white.
const NearWhiteLevel = 248

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex returns the color as an uppercase "#RRGGBB" string.
func (c RGBColor) Hex() string {
	return RGBToHex(c.R, c.G, c.B)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// RGBToHex formats 8-bit components as an uppercase "#RRGGBB" string.
func RGBToHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// ParseHex parses a 3- or 6-digit hex color, with or without a leading '#'.
//
// The second return value is false for malformed input; callers treat that as
// "no color" rather than an error.
func ParseHex(s string) (RGBColor, bool) {
	s = strings.TrimSpace(s)
	if !hexPattern.MatchString(s) {
		return RGBColor{}, false
	}
	c, err := colorful.Hex("#" + strings.TrimPrefix(s, "#"))
	if err != nil {
		return RGBColor{}, false
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, true
}

// NormalizeHex returns the canonical "#RRGGBB" form of a hex color.
func NormalizeHex(s string) (string, bool) {
	c, ok := ParseHex(s)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}

// Luminance returns the ITU-R BT.709 weighted luminance on the 0-255 scale.
func Luminance(c RGBColor) float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

// Saturation returns the channel spread max(r,g,b) - min(r,g,b).
func Saturation(c RGBColor) int {
	hi, lo := c.R, c.R
	for _, v := range [2]uint8{c.G, c.B} {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	return int(hi) - int(lo)
}

// SquaredDistance returns the squared Euclidean RGB distance between two colors.
// Thresholds throughout the module are compared in squared form.
func SquaredDistance(a, b RGBColor) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// IsNearWhite reports whether every channel is above NearWhiteLevel.
func IsNearWhite(c RGBColor) bool {
	return c.R > NearWhiteLevel && c.G > NearWhiteLevel && c.B > NearWhiteLevel
}

// DescribeColor returns the color in hex, RGB and HSL form.
//
// HSL values are rounded to whole degrees and percentages.
func DescribeColor(c RGBColor) ColorResult {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hsl()

	return ColorResult{
		Hex: c.Hex(),
		RGB: c,
		HSL: HSLColor{
			H: int(h + 0.5),
			S: int(s*100 + 0.5),
			L: int(l*100 + 0.5),
		},
	}
}
