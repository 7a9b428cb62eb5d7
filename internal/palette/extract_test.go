package palette

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
)

func TestExtract_FlatBackdropWithSubject(t *testing.T) {
	buf := framedScene(rgb(0xF0, 0xF0, 0xF0), rgb(255, 0, 0))

	res, err := Extract(context.Background(), buf, 5, nil, Options{})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if res.Background == nil || res.Background.Hex() != "#F0F0F0" {
		t.Errorf("background = %+v, want #F0F0F0", res.Background)
	}
	// Filtering would leave a single bin, so the unfiltered histogram is used
	// and the backdrop is not avoided.
	if res.Filtered {
		t.Error("Filtered should be false")
	}
	want := []string{"#FF0000", "#F0F0F0"}
	if !reflect.DeepEqual(res.Colors, want) {
		t.Errorf("colors = %v, want %v", res.Colors, want)
	}
	if res.Fallback {
		t.Error("Fallback should be false")
	}
}

var hexFormat = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestExtract_SmallFramedSubject(t *testing.T) {
	bg := rgb(0xF0, 0xF0, 0xF0)
	buf := newBuffer(100, 100, func(x, y int) imaging.RGBColor {
		if x >= 30 && x < 70 && y >= 30 && y < 70 {
			return rgb(220, 20, 30)
		}
		return bg
	})

	res, err := Extract(context.Background(), buf, 3, nil, Options{})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if res.Background == nil || imaging.SquaredDistance(res.Background.Mean, bg) > 8*8 {
		t.Errorf("background = %+v, want near #F0F0F0", res.Background)
	}

	hasRed := false
	for _, h := range res.Colors {
		if !hexFormat.MatchString(h) {
			t.Errorf("color %q is not canonical hex", h)
		}
		c, _ := imaging.ParseHex(h)
		if imaging.IsNearWhite(c) {
			t.Errorf("near-white color %s in palette", h)
		}
		if c.R > 150 && c.G < 80 && c.B < 80 {
			hasRed = true
		}
	}
	if !hasRed {
		t.Errorf("palette %v has no red-family color", res.Colors)
	}
}

func TestExtract_FiltersBackground(t *testing.T) {
	buf := gradientScene()

	res, err := Extract(context.Background(), buf, 5, nil, Options{})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !res.Filtered {
		t.Fatal("Filtered should be true")
	}
	if res.Background.Hex() != "#1E1E1E" {
		t.Errorf("background = %s, want #1E1E1E", res.Background.Hex())
	}
	if len(res.Colors) != 5 {
		t.Fatalf("got %d colors, want 5: %v", len(res.Colors), res.Colors)
	}

	threshold := BackgroundThreshold(res.Background.Mean)
	var prevLum float64 = -1
	for i, h := range res.Colors {
		c, ok := imaging.ParseHex(h)
		if !ok {
			t.Fatalf("color %d %q is not valid hex", i, h)
		}
		if d := imaging.SquaredDistance(c, res.Background.Mean); d < threshold {
			t.Errorf("color %s is within the background distance (d²=%d)", h, d)
		}
		if lum := imaging.Luminance(c); lum < prevLum {
			t.Errorf("colors not sorted by luminance at %d", i)
		} else {
			prevLum = lum
		}
		for _, other := range res.Colors[:i] {
			o, _ := imaging.ParseHex(other)
			if imaging.SquaredDistance(o, c) < sq(DefaultOptions().RelaxedSeparation) {
				t.Errorf("colors %s and %s too close", other, h)
			}
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	buf := gradientScene()
	first, err := Extract(context.Background(), buf, 4, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := Extract(context.Background(), buf, 4, nil, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first.Colors, again.Colors)
		}
	}
}

func TestExtract_CountCapsResult(t *testing.T) {
	buf := gradientScene()
	for _, n := range []int{1, 2, 3} {
		res, err := Extract(context.Background(), buf, n, nil, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Colors) != n {
			t.Errorf("count %d: got %d colors", n, len(res.Colors))
		}
	}

	res, _ := Extract(context.Background(), nil, 0, nil, Options{})
	if len(res.Colors) != DefaultColorCount {
		t.Errorf("count 0: got %d colors, want %d", len(res.Colors), DefaultColorCount)
	}
}

func TestExtract_Fallback(t *testing.T) {
	catalog := []string{"#FF0000", "#000000", "#0000FF"}

	t.Run("unusable buffer", func(t *testing.T) {
		res, err := Extract(context.Background(), nil, 2, catalog, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !res.Fallback {
			t.Error("Fallback should be true")
		}
		if !reflect.DeepEqual(res.Colors, []string{"#000000", "#FF0000"}) {
			t.Errorf("colors = %v", res.Colors)
		}
	})

	t.Run("all near-white", func(t *testing.T) {
		buf := newBuffer(60, 60, func(int, int) imaging.RGBColor { return rgb(255, 255, 255) })
		res, err := Extract(context.Background(), buf, 3, catalog, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !res.Fallback {
			t.Error("Fallback should be true")
		}
		if len(res.Colors) != 3 {
			t.Errorf("got %d colors, want 3", len(res.Colors))
		}
	})
}

func TestExtract_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Extract(ctx, gradientScene(), 5, nil, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFallbackPalette(t *testing.T) {
	tests := []struct {
		name    string
		catalog []string
		count   int
		want    []string
	}{
		{
			"skips malformed and repeated",
			[]string{"#FF0000", "bogus", "ff0000", "#000000"},
			4,
			[]string{"#000000", "#FF0000", NeutralHex, NeutralHex},
		},
		{
			"truncates to count",
			[]string{"#FFFFFF", "#808080", "#000000"},
			2,
			[]string{"#808080", "#FFFFFF"},
		},
		{
			"empty catalog",
			nil,
			2,
			[]string{NeutralHex, NeutralHex},
		},
		{
			"zero count",
			[]string{"#000000"},
			0,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackPalette(tt.catalog, tt.count)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FallbackPalette = %v, want %v", got, tt.want)
			}
		})
	}
}
