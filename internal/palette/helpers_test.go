package palette

import "github.com/ironsheep/paint-palette-mcp/internal/imaging"

// newBuffer builds a PixelBuffer whose pixels come from fill.
func newBuffer(width, height int, fill func(x, y int) imaging.RGBColor) *imaging.PixelBuffer {
	pix := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := fill(x, y)
			i := (y*width + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, 255
		}
	}
	return &imaging.PixelBuffer{Width: width, Height: height, Pix: pix}
}

// binOf returns a bin holding count samples of exactly c.
func binOf(c imaging.RGBColor, count int) ColorBin {
	return ColorBin{
		Key:   QuantizeKey(c),
		Count: count,
		SumR:  int(c.R) * count,
		SumG:  int(c.G) * count,
		SumB:  int(c.B) * count,
	}
}

func rgb(r, g, b uint8) imaging.RGBColor {
	return imaging.RGBColor{R: r, G: g, B: b}
}

// framedScene is a 200x200 image with a bg border and a fg square in the
// middle 100x100.
func framedScene(bg, fg imaging.RGBColor) *imaging.PixelBuffer {
	return newBuffer(200, 200, func(x, y int) imaging.RGBColor {
		if x >= 50 && x < 150 && y >= 50 && y < 150 {
			return fg
		}
		return bg
	})
}

// gradientScene is a dark 200x200 backdrop with a two-axis color gradient
// filling the middle 120x120, which yields hundreds of occupied bins.
func gradientScene() *imaging.PixelBuffer {
	return newBuffer(200, 200, func(x, y int) imaging.RGBColor {
		if x >= 40 && x < 160 && y >= 40 && y < 160 {
			return rgb(uint8(40+(x-40)*3/2), uint8(40+(y-40)*3/2), 120)
		}
		return rgb(30, 30, 30)
	})
}
