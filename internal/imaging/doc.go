// Package imaging turns image references into pixels and answers pixel-level
// questions about them.
//
// It covers the stages in front of palette extraction: decoding text payloads
// and files into fixed-layout RGBA buffers, caching decoded buffers, sampling
// the averaged color under a point, and locating the pixel that best matches
// a color. It also holds the shared color helpers (hex parsing, luminance,
// squared distance) used by the palette and paint packages.
//
// # Coordinate System
//
// Public operations take normalized coordinates: X and Y lie in [0,1] with
// (0,0) at the top-left corner, X increasing rightward and Y downward. A
// normalized coordinate maps to pixel (round(X*(W-1)), round(Y*(H-1))), so
// results do not depend on the width an image was decoded at.
//
// # Image References
//
// A reference is either a file path or a "data:<mime>;base64,<body>" URI.
// Bodies are decoded with DecodePayload, which accepts standard padded base64
// and ignores embedded whitespace.
//
// # Thread Safety
//
// DecodeCache and Loader are safe for concurrent use. PixelBuffers are never
// mutated after decoding and may be shared.
//
// # Color Representation
//
// Colors are exchanged as uppercase "#RRGGBB" strings. DescribeColor adds RGB
// components and HSL (Hue 0-360, Saturation 0-100, Lightness 0-100).
//
// # Error Handling
//
// Decoding failures are reported as ErrDecode or ErrMalformedPayload. The
// sampling and locating functions never fail: an unusable buffer yields
// "no color" or fallback positions instead.
package imaging
