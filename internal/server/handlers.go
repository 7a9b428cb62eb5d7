package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
	"github.com/ironsheep/paint-palette-mcp/internal/paint"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "palette_extract", "paint_match").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "err", err, "elapsed", time.Since(start))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug("tool finished", "tool", params.Name, "elapsed", time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Resolves the image reference (path or inline payload)
//  4. Calls the engine
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Palette Operations
	case "palette_extract":
		return s.handlePaletteExtract(ctx, args)
	case "palette_sample_color":
		return s.handlePaletteSampleColor(ctx, args)
	case "palette_locate_markers":
		return s.handlePaletteLocateMarkers(ctx, args)
	case "palette_analyze":
		return s.handlePaletteAnalyze(ctx, args)

	// Paint Operations
	case "paint_match":
		return s.handlePaintMatch(args)
	case "paint_catalog":
		return s.handlePaintCatalog()

	// Image Operations
	case "image_compress":
		return s.handleImageCompress(args)
	case "image_evict":
		return s.handleImageEvict(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageArgs identifies the image a tool works on: a file path or an inline
// base64 payload (as produced by image_compress).
type imageArgs struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
}

// ref returns the loader reference for the arguments.
func (a imageArgs) ref() (string, error) {
	path := strings.TrimSpace(a.Path)
	switch {
	case path != "" && a.ImageBase64 != "":
		return "", errors.New("provide either path or image_base64, not both")
	case path != "":
		return path, nil
	case a.ImageBase64 != "":
		return "data:application/octet-stream;base64," + a.ImageBase64, nil
	default:
		return "", errors.New("path or image_base64 is required")
	}
}

// === Palette Operation Handlers ===

type paletteExtractArgs struct {
	imageArgs
	Count int `json:"count"`
}

func (s *Server) handlePaletteExtract(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteExtractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count < 0 || a.Count > 16 {
		return nil, fmt.Errorf("invalid count %d: must be between 1 and 16", a.Count)
	}
	ref, err := a.ref()
	if err != nil {
		return nil, err
	}
	return s.engine.ExtractPalette(ctx, ref, a.Count)
}

type paletteSampleColorArgs struct {
	imageArgs
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius int     `json:"radius"`
	Target string  `json:"target"`
}

// sampleColorResult is the palette_sample_color response.
type sampleColorResult struct {
	Found      bool                 `json:"found"`
	Superseded bool                 `json:"superseded,omitempty"`
	Color      *imaging.ColorResult `json:"color,omitempty"`
}

func (s *Server) handlePaletteSampleColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.X < 0 || a.X > 1 || a.Y < 0 || a.Y > 1 {
		return nil, fmt.Errorf("coordinates (%g,%g) must be normalized to [0,1]", a.X, a.Y)
	}
	ref, err := a.ref()
	if err != nil {
		return nil, err
	}

	var hex string
	var ok bool
	if a.Target != "" {
		res := s.picker.Sample(ctx, a.Target, ref, a.X, a.Y, a.Radius)
		if res.Superseded {
			return sampleColorResult{Superseded: true}, nil
		}
		hex, ok = res.Hex, res.OK
	} else {
		hex, ok = s.engine.SampleColor(ctx, ref, a.X, a.Y, a.Radius)
	}
	if !ok {
		return sampleColorResult{}, nil
	}

	c, _ := imaging.ParseHex(hex)
	desc := imaging.DescribeColor(c)
	return sampleColorResult{Found: true, Color: &desc}, nil
}

type paletteLocateMarkersArgs struct {
	imageArgs
	Colors []string `json:"colors"`
}

func (s *Server) handlePaletteLocateMarkers(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteLocateMarkersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Colors) > imaging.MaxMarkers {
		return nil, fmt.Errorf("at most %d colors can be located, got %d", imaging.MaxMarkers, len(a.Colors))
	}
	ref, err := a.ref()
	if err != nil {
		return nil, err
	}
	positions := s.engine.LocateMarkers(ctx, ref, a.Colors)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return map[string]interface{}{"positions": positions}, nil
}

type paletteAnalyzeArgs struct {
	imageArgs
	Count     int                        `json:"count"`
	Owned     []paint.PaintRecord        `json:"owned"`
	Catalog   []paint.CatalogPaintRecord `json:"catalog"`
	Threshold float64                    `json:"threshold"`
}

func (s *Server) handlePaletteAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count < 0 || a.Count > imaging.MaxMarkers {
		return nil, fmt.Errorf("invalid count %d: must be between 1 and %d", a.Count, imaging.MaxMarkers)
	}
	if a.Threshold == 0 {
		a.Threshold = s.cfg.MatchThreshold
	}
	ref, err := a.ref()
	if err != nil {
		return nil, err
	}
	return s.engine.Analyze(ctx, ref, a.Count, a.Owned, a.Catalog, a.Threshold)
}

// === Paint Operation Handlers ===

type paintMatchArgs struct {
	Hex       string                     `json:"hex"`
	Owned     []paint.PaintRecord        `json:"owned"`
	Catalog   []paint.CatalogPaintRecord `json:"catalog"`
	Threshold float64                    `json:"threshold"`
}

// paintMatchResult is the paint_match response. A missing match is a normal
// outcome, not an error.
type paintMatchResult struct {
	Matched bool                `json:"matched"`
	Match   *paint.MatchedPaint `json:"match,omitempty"`
}

func (s *Server) handlePaintMatch(args json.RawMessage) (interface{}, error) {
	var a paintMatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold < 0 {
		return nil, fmt.Errorf("invalid threshold %g: must not be negative", a.Threshold)
	}
	if a.Threshold == 0 {
		a.Threshold = s.cfg.MatchThreshold
	}
	m, ok := s.engine.MatchPaint(a.Hex, a.Owned, a.Catalog, a.Threshold)
	return paintMatchResult{Matched: ok, Match: m}, nil
}

func (s *Server) handlePaintCatalog() (interface{}, error) {
	catalog := s.engine.Catalog()
	brands := lo.Uniq(lo.FilterMap(catalog, func(p paint.CatalogPaintRecord, _ int) (string, bool) {
		return p.Brand, p.Brand != ""
	}))
	return map[string]interface{}{
		"paints": catalog,
		"brands": brands,
	}, nil
}

// === Image Operation Handlers ===

type imageCompressArgs struct {
	Path     string `json:"path"`
	MaxWidth int    `json:"max_width"`
	Quality  int    `json:"quality"`
}

func (s *Server) handleImageCompress(args json.RawMessage) (interface{}, error) {
	var a imageCompressArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if a.MaxWidth == 0 {
		a.MaxWidth = 1024
	}
	res, err := imaging.CompressFile(a.Path, a.MaxWidth, a.Quality)
	if err != nil {
		return nil, err
	}
	return imageCompressResult{CompressResult: res, DataURI: res.DataURI()}, nil
}

// imageCompressResult adds a data URI that can be passed back as "path".
type imageCompressResult struct {
	*imaging.CompressResult
	DataURI string `json:"data_uri"`
}

type imageEvictArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageEvict(args json.RawMessage) (interface{}, error) {
	var a imageEvictArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		s.cache.Clear()
	} else {
		s.cache.Evict(a.Path)
	}
	return map[string]interface{}{"cached": s.cache.Len()}, nil
}
