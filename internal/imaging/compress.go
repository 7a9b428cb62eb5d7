package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DefaultCompressQuality is the JPEG quality used when none is given.
const DefaultCompressQuality = 80

// CompressResult contains a resized, re-encoded image as a text payload.
type CompressResult struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	PayloadBase64 string `json:"payload_base64"`
	MimeType      string `json:"mime_type"`
}

// DataURI returns the payload as a "data:" reference accepted by Loader.
func (r *CompressResult) DataURI() string {
	return "data:" + r.MimeType + ";base64," + r.PayloadBase64
}

// Compress resizes an image to at most maxWidth pixels wide and encodes it as
// JPEG, returning the bytes as standard padded base64 text.
//
// This is the resize/compress step that feeds the palette engine: its output
// is the text payload DecodePayload consumes.
//
// Parameters:
//   - img: Source image.
//   - maxWidth: Upper bound on the output width. Zero or less keeps the width.
//   - quality: JPEG quality 1-100. Zero selects DefaultCompressQuality.
func Compress(img image.Image, maxWidth, quality int) (*CompressResult, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot compress an empty image")
	}
	if quality == 0 {
		quality = DefaultCompressQuality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("invalid quality %d: must be between 1 and 100", quality)
	}

	out := img
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		out = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode compressed image: %w", err)
	}

	return &CompressResult{
		Width:         out.Bounds().Dx(),
		Height:        out.Bounds().Dy(),
		PayloadBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:      "image/jpeg",
	}, nil
}

// CompressFile opens an image file and compresses it with Compress.
func CompressFile(path string, maxWidth, quality int) (*CompressResult, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return Compress(img, maxWidth, quality)
}
