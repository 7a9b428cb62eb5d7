package paint

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	if len(catalog) == 0 {
		t.Fatal("default catalog is empty")
	}

	seen := make(map[string]bool)
	for _, p := range catalog {
		if seen[p.SourceID] {
			t.Errorf("duplicate source id %s", p.SourceID)
		}
		seen[p.SourceID] = true
		if len(p.Hex) != 7 || !strings.HasPrefix(p.Hex, "#") || strings.ToUpper(p.Hex) != p.Hex {
			t.Errorf("%s: hex %q not normalized", p.SourceID, p.Hex)
		}
		if p.Name == "" {
			t.Errorf("%s has no name", p.SourceID)
		}
	}
}

func TestDefaultCatalog_ReturnsCopy(t *testing.T) {
	a := DefaultCatalog()
	a[0].Name = "changed"
	if b := DefaultCatalog(); b[0].Name == "changed" {
		t.Error("DefaultCatalog shares its backing array")
	}
}

func TestParseCatalog(t *testing.T) {
	records, err := ParseCatalog([]byte(`[{"source_id":"x1","name":"Ochre","hex":"cc7722","brand":"Test"}]`))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if len(records) != 1 || records[0].Hex != "#CC7722" || records[0].Brand != "Test" {
		t.Errorf("got %+v", records)
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"not an array", `{"source_id":"x"}`},
		{"missing source id", `[{"name":"A","hex":"#000000"}]`},
		{"bad hex", `[{"source_id":"x","name":"A","hex":"#00"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.data)); err == nil {
				t.Error("ParseCatalog succeeded, want error")
			}
		})
	}
}

func TestHexes(t *testing.T) {
	got := Hexes([]CatalogPaintRecord{{Hex: "#000000"}, {Hex: "#FFFFFF"}})
	if len(got) != 2 || got[0] != "#000000" || got[1] != "#FFFFFF" {
		t.Errorf("Hexes = %v", got)
	}
}
