package imaging

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoSource is returned when an image reference is empty.
var ErrNoSource = errors.New("image reference is empty")

// Loader resolves image references into decoded pixel buffers.
//
// A reference is either a filesystem path or a "data:<mime>;base64,<body>" URI
// whose body is decoded with DecodePayload. Decoded buffers are cached per
// (reference, width) in a bounded DecodeCache, so repeated sampling of the
// same photo at the same size skips both I/O and decoding.
//
// Loader is safe for concurrent use. Two goroutines missing the cache for the
// same key may both decode; the later Put simply replaces the earlier one.
//
// # Example Usage
//
//	loader := imaging.NewLoader(imaging.ImageDecoder{}, imaging.NewDecodeCache(0))
//	buf, err := loader.Load("/path/to/photo.jpg", 480)
//	if err != nil {
//	    return err
//	}
type Loader struct {
	decoder Decoder
	cache   *DecodeCache
}

// NewLoader creates a loader. A nil cache disables caching.
func NewLoader(decoder Decoder, cache *DecodeCache) *Loader {
	if decoder == nil {
		decoder = ImageDecoder{}
	}
	return &Loader{decoder: decoder, cache: cache}
}

// Cache returns the loader's decode cache, which may be nil.
func (l *Loader) Cache() *DecodeCache {
	return l.cache
}

// Load returns the buffer for ref decoded to at most width pixels wide.
//
// Returns:
//   - *PixelBuffer: The decoded, possibly downscaled, image.
//   - error: ErrNoSource, a file read error, ErrMalformedPayload or ErrDecode.
func (l *Loader) Load(ref string, width int) (*PixelBuffer, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNoSource
	}

	if l.cache != nil {
		if buf, ok := l.cache.Get(ref, width); ok {
			return buf, nil
		}
	}

	data, err := readSource(ref)
	if err != nil {
		return nil, err
	}

	buf, err := l.decoder.Decode(data, width)
	if err != nil {
		return nil, err
	}
	if !buf.Valid() {
		return nil, fmt.Errorf("%w: decoder returned an inconsistent buffer", ErrDecode)
	}

	if l.cache != nil {
		l.cache.Put(ref, width, buf)
	}
	return buf, nil
}

// readSource returns the compressed bytes behind a reference.
func readSource(ref string) ([]byte, error) {
	if body, ok := splitDataURI(ref); ok {
		data, err := DecodePayload(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return data, nil
}
