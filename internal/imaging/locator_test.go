package imaging

import (
	"context"
	"math"
	"reflect"
	"testing"
)

var (
	locGray = RGBColor{128, 128, 128}
	locBlue = RGBColor{0, 0, 255}
	locRed  = RGBColor{255, 0, 0}
)

// markerScene is a gray 200x200 image with a blue block at x 100-139,
// y 60-99 and a red block at x 40-59, y 150-159.
func markerScene() *PixelBuffer {
	return newBuffer(200, 200, func(x, y int) RGBColor {
		switch {
		case x >= 100 && x < 140 && y >= 60 && y < 100:
			return locBlue
		case x >= 40 && x < 60 && y >= 150 && y < 160:
			return locRed
		default:
			return locGray
		}
	})
}

func TestLocateMarkers_FindsRegions(t *testing.T) {
	buf := markerScene()
	got := LocateMarkers(context.Background(), buf, []RGBColor{locBlue, locRed, locGray}, LocateOptions{})

	if len(got) != 3 {
		t.Fatalf("got %d positions, want 3", len(got))
	}

	// Ties resolve to the first pixel in row-major order.
	wantBlue := Position{X: 100.0 / 199, Y: 60.0 / 199}
	if got[0] != wantBlue {
		t.Errorf("blue: got %+v, want %+v", got[0], wantBlue)
	}
	wantRed := Position{X: 40.0 / 199, Y: 150.0 / 199}
	if got[1] != wantRed {
		t.Errorf("red: got %+v, want %+v", got[1], wantRed)
	}
	// Gray is everywhere; the first match is the top-left of the safe area.
	wantGray := Position{X: 35.0 / 199, Y: 35.0 / 199}
	if got[2] != wantGray {
		t.Errorf("gray: got %+v, want %+v", got[2], wantGray)
	}
}

func TestLocateMarkers_NearestColorWins(t *testing.T) {
	buf := markerScene()
	// Dark navy is closer to blue than to gray or red.
	got := LocateMarkers(context.Background(), buf, []RGBColor{{10, 10, 200}}, LocateOptions{})
	want := Position{X: 100.0 / 199, Y: 60.0 / 199}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestLocateMarkers_SafeMargin(t *testing.T) {
	// Red only exists in the outer frame.
	buf := newBuffer(100, 100, func(x, y int) RGBColor {
		if x < 5 || y < 5 {
			return locRed
		}
		return locGray
	})

	got := LocateMarkers(context.Background(), buf, []RGBColor{locRed}, LocateOptions{SafeMargin: 20})
	if got[0].X < 20.0/99 || got[0].Y < 20.0/99 {
		t.Errorf("position %+v lies inside the margin", got[0])
	}

	// A negative margin disables the inset.
	got = LocateMarkers(context.Background(), buf, []RGBColor{locRed}, LocateOptions{SafeMargin: -1})
	if got[0] != (Position{X: 0, Y: 0}) {
		t.Errorf("no margin: got %+v, want origin", got[0])
	}
}

func TestLocateMarkers_SmallImageIgnoresMargin(t *testing.T) {
	buf := newBuffer(20, 20, func(x, y int) RGBColor {
		if x == 19 && y == 19 {
			return locBlue
		}
		return locGray
	})
	got := LocateMarkers(context.Background(), buf, []RGBColor{locBlue}, LocateOptions{})
	if got[0] != (Position{X: 1, Y: 1}) {
		t.Errorf("got %+v, want {1 1}", got[0])
	}
}

func TestLocateMarkers_Fallbacks(t *testing.T) {
	targets := []RGBColor{locBlue, locRed, locGray, locBlue, locRed, locGray, locBlue}

	got := LocateMarkers(context.Background(), nil, targets, LocateOptions{})
	if len(got) != len(targets) {
		t.Fatalf("got %d positions, want %d", len(got), len(targets))
	}
	for k, p := range got {
		if p != FallbackPosition(k) {
			t.Errorf("position %d = %+v, want fallback %+v", k, p, FallbackPosition(k))
		}
	}

	// Targets past MaxMarkers are not searched.
	got = LocateMarkers(context.Background(), markerScene(), targets, LocateOptions{})
	if got[6] != FallbackPosition(6) {
		t.Errorf("7th target = %+v, want fallback", got[6])
	}
	if got[0] == FallbackPosition(0) {
		t.Error("1st target was not searched")
	}
}

func TestLocateMarkers_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := LocateMarkers(ctx, markerScene(), []RGBColor{locBlue}, LocateOptions{})
	if got[0] != FallbackPosition(0) {
		t.Errorf("got %+v, want fallback", got[0])
	}
}

func TestFallbackPosition(t *testing.T) {
	for k := 0; k < MaxMarkers; k++ {
		p := FallbackPosition(k)
		if p.Y != 0.5 {
			t.Errorf("FallbackPosition(%d).Y = %v, want 0.5", k, p.Y)
		}
		if want := float64(k+1) / 6; p.X != want {
			t.Errorf("FallbackPosition(%d).X = %v, want %v", k, p.X, want)
		}
	}
}

func TestSampleStep(t *testing.T) {
	tests := []struct {
		total, target int
		want          float64
	}{
		{100, 1000, 1},
		{40000, 45000, 1},
		{400 * 400, 40000, 2},
		{900 * 900, 90000, 3},
		{100, 0, 1},
	}
	for _, tt := range tests {
		if got := SampleStep(tt.total, tt.target); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SampleStep(%d, %d) = %v, want %v", tt.total, tt.target, got, tt.want)
		}
	}
}

func TestGridCoords(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int
		step   float64
		want   []int
	}{
		{"unit step", 2, 6, 1, []int{2, 3, 4, 5}},
		{"whole step", 0, 7, 2, []int{0, 2, 4, 6}},
		{"fractional step", 0, 6, 1.5, []int{0, 1, 3, 4}},
		{"step below one", 0, 3, 0.2, []int{0, 1, 2}},
		{"empty range", 5, 5, 1, nil},
	}
	for _, tt := range tests {
		if got := GridCoords(tt.lo, tt.hi, tt.step); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGridCoords_VisitsNearTarget(t *testing.T) {
	tests := []struct {
		width, height, target int
	}{
		{400, 300, 35000},
		{400, 267, 35000},
		{480, 360, 45000},
		{410, 290, 45000},
		{1024, 768, 35000},
	}
	for _, tt := range tests {
		step := SampleStep(tt.width*tt.height, tt.target)
		n := len(GridCoords(0, tt.width, step)) * len(GridCoords(0, tt.height, step))
		if lo, hi := tt.target*3/4, tt.target*5/4; n < lo || n > hi {
			t.Errorf("%dx%d: visited %d pixels, want within [%d, %d]", tt.width, tt.height, n, lo, hi)
		}
	}
}
