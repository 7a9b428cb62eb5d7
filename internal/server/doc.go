// Package server implements the MCP (Model Context Protocol) server for palette tools.
//
// This package provides a JSON-RPC 2.0 server that exposes dominant-color
// palette extraction and paint matching through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//   - notifications/cancelled: Cancel an in-flight tools/call
//
// Requests are handled concurrently; responses may arrive out of order and
// are matched by ID.
//
// # Available Tools
//
// Palette Operations:
//   - palette_extract: Dominant colors, dark to light
//   - palette_sample_color: Averaged color under a normalized point
//   - palette_locate_markers: Best pixel position per color
//   - palette_analyze: Extract, locate and match in one call
//
// Paint Operations:
//   - paint_match: Exact or probable paint for a color
//   - paint_catalog: Built-in reference paints
//
// Image Operations:
//   - image_compress: Resize and encode to a base64 payload
//   - image_evict: Drop cached decodes
//
// # Image References
//
// Image tools accept either "path" or "image_base64". Decoded images are kept
// in a small least-recently-used cache keyed by reference and decode width,
// sized by PALETTE_MCP_CACHE_SIZE.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// An image that cannot be decoded is not an error for palette_extract (it
// returns the catalog fallback palette) or palette_sample_color (it returns
// found=false). A color with no paint nearby is likewise reported as
// matched=false.
package server
