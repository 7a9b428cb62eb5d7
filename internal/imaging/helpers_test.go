package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// newBuffer builds a PixelBuffer whose pixels come from fill.
func newBuffer(width, height int, fill func(x, y int) RGBColor) *PixelBuffer {
	pix := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := fill(x, y)
			i := (y*width + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, 255
		}
	}
	return &PixelBuffer{Width: width, Height: height, Pix: pix}
}

// solid returns a fill function for a single color.
func solid(c RGBColor) func(x, y int) RGBColor {
	return func(int, int) RGBColor { return c }
}

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// encodePNG returns img as PNG bytes.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// createTestImage writes a solid PNG into a temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")
	if err := os.WriteFile(path, encodePNG(t, createInMemoryImage(width, height, c)), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}
