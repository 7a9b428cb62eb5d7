package paint

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
)

//go:embed catalog.json
var catalogJSON []byte

var (
	catalogOnce sync.Once
	catalog     []CatalogPaintRecord
	catalogErr  error
)

// DefaultCatalog returns the built-in reference paints.
//
// The returned slice is a copy; callers may modify it.
func DefaultCatalog() []CatalogPaintRecord {
	catalogOnce.Do(func() {
		catalog, catalogErr = ParseCatalog(catalogJSON)
	})
	if catalogErr != nil {
		// The embedded file is validated by tests.
		panic(catalogErr)
	}
	return append([]CatalogPaintRecord(nil), catalog...)
}

// ParseCatalog decodes a JSON array of catalog records and normalizes every
// hex to "#RRGGBB". Records with malformed hex or an empty source id are
// rejected rather than carried along.
func ParseCatalog(data []byte) ([]CatalogPaintRecord, error) {
	var records []CatalogPaintRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i, r := range records {
		if r.SourceID == "" {
			return nil, fmt.Errorf("catalog entry %d (%s) has no source id", i, r.Name)
		}
		norm, ok := imaging.NormalizeHex(r.Hex)
		if !ok {
			return nil, fmt.Errorf("catalog entry %s has invalid hex %q", r.SourceID, r.Hex)
		}
		records[i].Hex = norm
	}
	return records, nil
}

// Hexes returns the catalog colors in order.
func Hexes(records []CatalogPaintRecord) []string {
	return lo.Map(records, func(r CatalogPaintRecord, _ int) string { return r.Hex })
}
