package imaging

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPayload is returned when a text payload is not valid padded base64.
var ErrMalformedPayload = errors.New("malformed payload")

const payloadAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// invalidSextet marks bytes outside the alphabet in payloadTable.
const invalidSextet = 0xFF

// payloadTable maps an input byte to its 6-bit value.
var payloadTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = invalidSextet
	}
	for i := 0; i < len(payloadAlphabet); i++ {
		t[payloadAlphabet[i]] = byte(i)
	}
	return t
}()

// DecodePayload converts a padded base64 text payload into raw bytes.
//
// Whitespace anywhere in the input is ignored. The cleaned length must be a
// multiple of 4; padding ('=' or "==") may only appear at the very end and
// trims the last one or two bytes of the final quantum.
//
// Parameters:
//   - text: The encoded payload, possibly wrapped across lines.
//
// Returns:
//   - []byte: The decoded bytes. Empty (not nil) for empty input.
//   - error: ErrMalformedPayload (wrapped) for bad length, characters or padding.
func DecodePayload(text string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			return -1
		}
		return r
	}, text)

	if len(clean)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrMalformedPayload, len(clean))
	}
	if len(clean) == 0 {
		return []byte{}, nil
	}

	padding := 0
	if clean[len(clean)-1] == '=' {
		padding++
		if clean[len(clean)-2] == '=' {
			padding++
		}
	}

	out := make([]byte, 0, len(clean)/4*3)
	for i := 0; i < len(clean); i += 4 {
		last := i+4 == len(clean)

		var quantum [4]byte
		for j := 0; j < 4; j++ {
			ch := clean[i+j]
			if ch == '=' {
				if !last || j < 4-padding {
					return nil, fmt.Errorf("%w: unexpected padding at offset %d", ErrMalformedPayload, i+j)
				}
				continue
			}
			v := payloadTable[ch]
			if v == invalidSextet {
				return nil, fmt.Errorf("%w: invalid character %q at offset %d", ErrMalformedPayload, ch, i+j)
			}
			quantum[j] = v
		}

		out = append(out,
			quantum[0]<<2|quantum[1]>>4,
			quantum[1]<<4|quantum[2]>>2,
			quantum[2]<<6|quantum[3],
		)
	}

	return out[:len(out)-padding], nil
}

// splitDataURI returns the body of a "data:<mime>;base64,<body>" reference.
func splitDataURI(ref string) (string, bool) {
	if !strings.HasPrefix(ref, "data:") {
		return "", false
	}
	comma := strings.IndexByte(ref, ',')
	if comma < 0 {
		return "", false
	}
	return ref[comma+1:], true
}
