package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrDecode is returned when compressed image bytes cannot be turned into pixels.
var ErrDecode = errors.New("decode failed")

// PixelBuffer is a decoded raster in fixed RGBA channel order.
//
// Pix holds exactly Width*Height*4 bytes, row-major with no padding. A buffer
// is never modified after it has been produced, so it may be shared freely
// between goroutines and cache entries.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer copies any image.Image into a tightly packed RGBA buffer.
func NewPixelBuffer(img image.Image) *PixelBuffer {
	rgba := clone.AsRGBA(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()

	pix := rgba.Pix
	if rgba.Stride != w*4 || len(pix) != w*h*4 {
		pix = make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			copy(pix[y*w*4:(y+1)*w*4], rgba.Pix[y*rgba.Stride:y*rgba.Stride+w*4])
		}
	}

	return &PixelBuffer{Width: w, Height: h, Pix: pix}
}

// Valid reports whether the buffer dimensions agree with its pixel data.
func (b *PixelBuffer) Valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0 && len(b.Pix) == b.Width*b.Height*4
}

// At returns the RGB color at (x, y). Coordinates must be in bounds.
func (b *PixelBuffer) At(x, y int) RGBColor {
	i := (y*b.Width + x) * 4
	return RGBColor{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

// Decoder turns compressed image bytes into a PixelBuffer no wider than targetWidth.
//
// A targetWidth of zero or less keeps the native width. Implementations must
// return promptly with an error for empty or corrupt input.
type Decoder interface {
	Decode(data []byte, targetWidth int) (*PixelBuffer, error)
}

// ImageDecoder is the default Decoder backed by the registered image formats
// (PNG, JPEG, GIF, WebP). EXIF orientation is applied before resizing.
type ImageDecoder struct{}

// Decode implements Decoder.
func (ImageDecoder) Decode(data []byte, targetWidth int) (*PixelBuffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}

	if targetWidth > 0 && bounds.Dx() > targetWidth {
		img = imaging.Resize(img, targetWidth, 0, imaging.Box)
	}

	return NewPixelBuffer(img), nil
}
