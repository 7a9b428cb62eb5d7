package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageProperties returns the schema properties shared by every tool that
// reads an image: a path or an inline payload.
func imageProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Compressed image bytes as padded base64 text (alternative to path)",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

var paintRecordSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":    map[string]interface{}{"type": "string"},
		"name":  map[string]interface{}{"type": "string"},
		"hex":   map[string]interface{}{"type": "string"},
		"brand": map[string]interface{}{"type": "string"},
	},
	"required": []string{"id", "name", "hex"},
}

var catalogRecordSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"source_id": map[string]interface{}{"type": "string"},
		"name":      map[string]interface{}{"type": "string"},
		"hex":       map[string]interface{}{"type": "string"},
		"brand":     map[string]interface{}{"type": "string"},
	},
	"required": []string{"source_id", "name", "hex"},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Palette Operations
		{
			Name:        "palette_extract",
			Description: "Extract a palette of perceptually distinct dominant colors from a photo, ignoring the backdrop. Colors are ordered dark to light.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return (default 5)",
						"default":     5,
					},
				}),
			},
		},
		{
			Name:        "palette_sample_color",
			Description: "Get the averaged color under a normalized coordinate. With a target name, rapid requests for the same target are coalesced and only the latest is sampled.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "number",
						"description": "Horizontal position, 0 (left) to 1 (right)",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Vertical position, 0 (top) to 1 (bottom)",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Averaging radius in pixels, 0-10 (default 0)",
						"default":     0,
					},
					"target": map[string]interface{}{
						"type":        "string",
						"description": "Optional marker id for latest-wins rate limiting",
					},
				}),
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "palette_locate_markers",
			Description: "Find the pixel that best represents each color and return normalized positions in input order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(map[string]interface{}{
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"maxItems":    5,
						"description": "Up to 5 hex colors",
					},
				}),
				"required": []string{"colors"},
			},
		},
		{
			Name:        "palette_analyze",
			Description: "Extract a palette, place a marker for each color and match each color to a paint, in one call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": imageProperties(map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors (1-5, default 5)",
						"default":     5,
					},
					"owned": map[string]interface{}{
						"type":        "array",
						"items":       paintRecordSchema,
						"description": "The user's own paints",
					},
					"catalog": map[string]interface{}{
						"type":        "array",
						"items":       catalogRecordSchema,
						"description": "Reference paints; defaults to the built-in catalog",
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Probable-match distance in RGB units (default 42)",
					},
				}),
			},
		},

		// Paint Operations
		{
			Name:        "paint_match",
			Description: "Match a hex color against owned paints (exact) and a reference catalog (probable, within a distance threshold).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Color to match, e.g. #A1B2C3",
					},
					"owned": map[string]interface{}{
						"type":        "array",
						"items":       paintRecordSchema,
						"description": "The user's own paints",
					},
					"catalog": map[string]interface{}{
						"type":        "array",
						"items":       catalogRecordSchema,
						"description": "Reference paints; defaults to the built-in catalog",
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Probable-match distance in RGB units (default 42)",
					},
				},
				"required": []string{"hex"},
			},
		},
		{
			Name:        "paint_catalog",
			Description: "List the built-in reference paint catalog.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Image Operations
		{
			Name:        "image_compress",
			Description: "Resize and JPEG-compress an image, returning it as base64 text usable as image_base64, and as a data_uri usable as path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum output width in pixels (default 1024)",
						"default":     1024,
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100 (default 80)",
						"default":     80,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_evict",
			Description: "Drop decoded copies of an image from the cache, or clear the cache when no path is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image path to evict; omit to clear everything",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
