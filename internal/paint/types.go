// Package paint matches colors against owned paints and a reference catalog.
package paint

// MatchKind distinguishes an identical hex from a nearby catalog color.
type MatchKind string

const (
	// MatchExact means the color is one of the user's own paints.
	MatchExact MatchKind = "exact"
	// MatchProbable means a catalog paint lies within the distance threshold.
	MatchProbable MatchKind = "probable"
)

// MatchedPaint is the paint a resolved color was matched to.
type MatchedPaint struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Kind  MatchKind `json:"kind"`
	Owned bool      `json:"owned"`
}

// PaintRecord is a paint the user owns.
type PaintRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Hex   string `json:"hex"`
	Brand string `json:"brand,omitempty"`
}

// CatalogPaintRecord is a reference paint. SourceID lives in a namespace
// separate from user paint ids.
type CatalogPaintRecord struct {
	SourceID string `json:"source_id"`
	Name     string `json:"name"`
	Hex      string `json:"hex"`
	Brand    string `json:"brand,omitempty"`
}
