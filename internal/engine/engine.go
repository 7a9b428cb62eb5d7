package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
	"github.com/ironsheep/paint-palette-mcp/internal/paint"
	"github.com/ironsheep/paint-palette-mcp/internal/palette"
)

// Decode widths for each operation. Sampling uses the largest rendition so a
// picked color reflects fine detail; extraction only needs a coarse view.
const (
	DefaultExtractWidth = 400
	DefaultSampleWidth  = 640
	DefaultLocateWidth  = 480
)

// Options configures an Engine. Zero fields select defaults.
type Options struct {
	ExtractWidth int
	SampleWidth  int
	LocateWidth  int
	Palette      palette.Options
	Locate       imaging.LocateOptions

	// Catalog supplies the fallback palette. Nil selects paint.DefaultCatalog.
	Catalog []paint.CatalogPaintRecord
}

func (o Options) normalized() Options {
	if o.ExtractWidth <= 0 {
		o.ExtractWidth = DefaultExtractWidth
	}
	if o.SampleWidth <= 0 {
		o.SampleWidth = DefaultSampleWidth
	}
	if o.LocateWidth <= 0 {
		o.LocateWidth = DefaultLocateWidth
	}
	if o.Catalog == nil {
		o.Catalog = paint.DefaultCatalog()
	}
	return o
}

// Engine runs the palette operations against image references.
//
// Every operation decodes through a shared Loader, so repeated calls on the
// same photo hit the bounded decode cache. Engine is safe for concurrent use.
type Engine struct {
	loader *imaging.Loader
	opts   Options
}

// New creates an engine reading images through loader.
func New(loader *imaging.Loader, opts Options) *Engine {
	if loader == nil {
		loader = imaging.NewLoader(imaging.ImageDecoder{}, imaging.NewDecodeCache(0))
	}
	return &Engine{loader: loader, opts: opts.normalized()}
}

// Catalog returns the engine's reference catalog.
func (e *Engine) Catalog() []paint.CatalogPaintRecord {
	return e.opts.Catalog
}

// ExtractPalette returns up to count colors for ref, dark to light.
//
// A reference that cannot be read or decoded still yields a usable palette
// drawn from the catalog (Result.Fallback). The only error is ctx.Err().
func (e *Engine) ExtractPalette(ctx context.Context, ref string, count int) (palette.Result, error) {
	if err := ctx.Err(); err != nil {
		return palette.Result{}, err
	}
	buf, err := e.loader.Load(ref, e.opts.ExtractWidth)
	if err != nil {
		buf = nil
	}
	return palette.Extract(ctx, buf, count, paint.Hexes(e.opts.Catalog), e.opts.Palette)
}

// SampleColor returns the averaged color under a normalized coordinate, or
// false when ref cannot be decoded or ctx is done. Radius is clamped to 0-10.
func (e *Engine) SampleColor(ctx context.Context, ref string, xRel, yRel float64, radius int) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	buf, err := e.loader.Load(ref, e.opts.SampleWidth)
	if err != nil {
		return "", false
	}
	return imaging.SampleBuffer(buf, xRel, yRel, radius)
}

// LocateMarkers returns one normalized position per color, in input order.
// Malformed colors, colors past the fifth and an undecodable ref all yield
// the row fallback position for their index.
func (e *Engine) LocateMarkers(ctx context.Context, ref string, colors []string) []imaging.Position {
	out := lo.Times(len(colors), imaging.FallbackPosition)
	if len(colors) == 0 || ctx.Err() != nil {
		return out
	}

	buf, err := e.loader.Load(ref, e.opts.LocateWidth)
	if err != nil {
		return out
	}

	// Only well-formed colors are searched; remember where each came from.
	var targets []imaging.RGBColor
	var index []int
	for i, h := range lo.Slice(colors, 0, imaging.MaxMarkers) {
		if c, ok := imaging.ParseHex(h); ok {
			targets = append(targets, c)
			index = append(index, i)
		}
	}

	found, ok := imaging.NearestPixels(ctx, buf, targets, e.opts.Locate)
	for j, i := range index {
		if ok[j] {
			out[i] = found[j]
		}
	}
	return out
}

// MatchPaint matches hex against owned paints and a catalog. A nil catalog
// selects the engine's catalog. See paint.Match.
func (e *Engine) MatchPaint(hex string, owned []paint.PaintRecord, catalog []paint.CatalogPaintRecord, threshold float64) (*paint.MatchedPaint, bool) {
	if catalog == nil {
		catalog = e.opts.Catalog
	}
	return paint.Match(hex, owned, catalog, threshold)
}

// Analysis is the combined output of Analyze.
type Analysis struct {
	Colors []palette.PaletteColor `json:"colors"`
	Result palette.Result         `json:"result"`
}

// Analyze extracts a palette, places a marker for each color and matches it
// against paints in one call. Colors are labeled "Color 1".."Color N" in
// palette order and receive fresh UUIDs.
func (e *Engine) Analyze(ctx context.Context, ref string, count int, owned []paint.PaintRecord, catalog []paint.CatalogPaintRecord, threshold float64) (*Analysis, error) {
	res, err := e.ExtractPalette(ctx, ref, count)
	if err != nil {
		return nil, err
	}

	var positions []imaging.Position
	if res.Fallback {
		positions = lo.Times(len(res.Colors), imaging.FallbackPosition)
	} else {
		positions = e.LocateMarkers(ctx, ref, res.Colors)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	colors := make([]palette.PaletteColor, 0, len(res.Colors))
	for i, h := range res.Colors {
		pc, err := palette.NewPaletteColor(uuid.NewString(), fmt.Sprintf("Color %d", i+1), h, positions[i], 0)
		if err != nil {
			return nil, err
		}
		if m, ok := e.MatchPaint(h, owned, catalog, threshold); ok {
			pc.Match = m
		}
		colors = append(colors, pc)
	}

	return &Analysis{Colors: colors, Result: res}, nil
}
