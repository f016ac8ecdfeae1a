package cardseg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"
)

type cardColours struct {
	bg, accent, text color.RGBA
	hex              Colours
}

func rgba(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

var quadrantCards = []cardColours{
	{rgba(245, 239, 224), rgba(214, 40, 40), rgba(27, 27, 27), Colours{"#f5efe0", "#d62828", "#1b1b1b"}},
	{rgba(230, 242, 250), rgba(29, 127, 196), rgba(34, 34, 34), Colours{"#e6f2fa", "#1d7fc4", "#222222"}},
	{rgba(238, 247, 232), rgba(46, 139, 58), rgba(16, 24, 32), Colours{"#eef7e8", "#2e8b3a", "#101820"}},
	{rgba(251, 238, 246), rgba(142, 63, 181), rgba(42, 42, 42), Colours{"#fbeef6", "#8e3fb5", "#2a2a2a"}},
}

// drawCard paints a flat card with a 270° accent arc (radius 27-33 around
// the card centre, from 0° to 270° in image axes) and a text bar below it.
func drawCard(img *image.RGBA, b Bounds, c cardColours) {
	cx, cy := float64(b.X0+b.X1)/2, float64(b.Y0+b.Y1)/2
	for y := b.Y0; y < b.Y1; y++ {
		for x := b.X0; x < b.X1; x++ {
			px := c.bg
			dx, dy := float64(x)-cx, float64(y)-cy
			d := math.Hypot(dx, dy)
			a := math.Atan2(dy, dx) * 180 / math.Pi
			if a < 0 {
				a += 360
			}
			switch {
			case d >= 27 && d <= 33 && a <= 270:
				px = c.accent
			case y >= b.Y0+88 && y < b.Y0+95 && x >= b.X0+10 && x < b.X0+90:
				px = c.text
			}
			img.SetRGBA(x, y, px)
		}
	}
}

func quadrantImage() (RGBImage, []Region) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	ids := []string{"driver", "iron", "wedge", "putter"}
	names := []string{"Driver", "4 Iron", "Sand Wedge", "Putter"}
	regions := make([]Region, 4)
	for i := range 4 {
		b := Bounds{X0: (i % 2) * 100, Y0: (i / 2) * 100, X1: (i%2)*100 + 100, Y1: (i/2)*100 + 100}
		drawCard(img, b, quadrantCards[i])
		regions[i] = Region{ID: ids[i], Name: names[i], Bounds: b}
	}
	return RGBImageFrom(img), regions
}

func TestSegmentQuadrants(t *testing.T) {
	img, regions := quadrantImage()

	calls := 0
	opt := DefaultOptions()
	opt.Progress = func(Region, SegmentResult) { calls++ }

	got, err := NewSegmenter(img, opt).Segment(regions)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d results, want 4", len(got))
	}
	if calls != 4 {
		t.Errorf("progress called %d times, want 4", calls)
	}

	for i, r := range regions {
		res, ok := got[r.ID]
		if !ok {
			t.Fatalf("missing result for %s", r.ID)
		}
		want := quadrantCards[i].hex
		if res.BackgroundColor != want.Background || res.AccentColor != want.Accent || res.TextColor != want.Text {
			t.Errorf("%s colours = %s/%s/%s, want %s/%s/%s", r.ID,
				res.BackgroundColor, res.AccentColor, res.TextColor,
				want.Background, want.Accent, want.Text)
		}
		if res.Name != r.Name || res.Bounds != r.Bounds {
			t.Errorf("%s identity = %q %+v", r.ID, res.Name, res.Bounds)
		}

		acc := res.Accent
		wantCX, wantCY := float64(r.Bounds.X0)+50, float64(r.Bounds.Y0)+50
		if math.Abs(acc.CenterX-wantCX) > 1 || math.Abs(acc.CenterY-wantCY) > 1 {
			t.Errorf("%s centre = (%.2f, %.2f), want about (%.0f, %.0f)", r.ID, acc.CenterX, acc.CenterY, wantCX, wantCY)
		}
		if math.Abs(acc.Radius-30) > 1 {
			t.Errorf("%s radius = %.2f, want about 30", r.ID, acc.Radius)
		}
		if math.Abs(acc.StartAngleDeg) > 3 || math.Abs(acc.EndAngleDeg-270) > 3 {
			t.Errorf("%s arc = %.1f..%.1f, want about 0..270", r.ID, acc.StartAngleDeg, acc.EndAngleDeg)
		}
		if acc.StrokeWidth < 6 || acc.StrokeWidth > 26 {
			t.Errorf("%s stroke = %.2f outside [6, 26]", r.ID, acc.StrokeWidth)
		}
	}
}

func TestSegmentDeterministic(t *testing.T) {
	img, regions := quadrantImage()
	a, err := NewSegmenter(img, DefaultOptions()).Segment(regions)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSegmenter(img, DefaultOptions()).Segment(regions)
	if err != nil {
		t.Fatal(err)
	}
	for id := range a {
		if a[id] != b[id] {
			t.Errorf("%s differs between runs: %+v vs %+v", id, a[id], b[id])
		}
	}
}

func TestSegmentTwoColourRegionFails(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := range 60 {
		for x := range 60 {
			c := rgba(250, 250, 250)
			if x > 20 && x < 40 {
				c = rgba(200, 30, 30)
			}
			img.SetRGBA(x, y, c)
		}
	}
	regions := []Region{{ID: "flat", Name: "Flat", Bounds: Bounds{0, 0, 60, 60}}}

	got, err := NewSegmenter(RGBImageFrom(img), DefaultOptions()).Segment(regions)
	if got != nil {
		t.Errorf("expected no partial manifest, got %d entries", len(got))
	}
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("Segment() error = %v, want ErrInsufficientData", err)
	}
	re, ok := AsRegionError(err)
	if !ok {
		t.Fatalf("error %T is not a *RegionError", err)
	}
	if re.RegionID != "flat" || re.Stage != StageClassify {
		t.Errorf("RegionError = %+v", re)
	}
}

func TestSegmentAbortsOnFirstFailure(t *testing.T) {
	img, regions := quadrantImage()
	regions = append(regions, Region{ID: "outside", Name: "Outside", Bounds: Bounds{150, 150, 260, 220}})

	got, err := NewSegmenter(img, DefaultOptions()).Segment(regions)
	if got != nil {
		t.Error("expected nil manifest")
	}
	if !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("Segment() error = %v, want ErrInvalidRegion", err)
	}
	if re, _ := AsRegionError(err); re == nil || re.RegionID != "outside" || re.Stage != StageBounds {
		t.Errorf("RegionError = %+v", re)
	}
}

func TestSegmentRegionErrors(t *testing.T) {
	img, _ := quadrantImage()
	tests := []struct {
		name  string
		r     Region
		want  error
		stage Stage
	}{
		{"unordered bounds", Region{ID: "a", Bounds: Bounds{50, 50, 10, 80}}, ErrInvalidRegion, StageBounds},
		{"outside image", Region{ID: "b", Bounds: Bounds{0, 0, 201, 10}}, ErrInvalidRegion, StageBounds},
		{"fewer pixels than k", Region{ID: "c", Bounds: Bounds{0, 0, 1, 3}}, ErrInsufficientData, StageCluster},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSegmenter(img, DefaultOptions()).SegmentRegion(tt.r)
			if !errors.Is(err, tt.want) {
				t.Fatalf("SegmentRegion() error = %v, want %v", err, tt.want)
			}
			if Kind(err) != tt.want {
				t.Errorf("Kind() = %v, want %v", Kind(err), tt.want)
			}
			if re, _ := AsRegionError(err); re == nil || re.Stage != tt.stage {
				t.Errorf("stage = %+v, want %s", re, tt.stage)
			}
		})
	}
}

func TestSegmentDuplicateIDs(t *testing.T) {
	img, regions := quadrantImage()
	regions[1].ID = regions[0].ID
	if _, err := NewSegmenter(img, DefaultOptions()).Segment(regions); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("Segment() error = %v, want ErrInvalidRegion", err)
	}
}

func TestAsRegionError(t *testing.T) {
	inner := &RegionError{RegionID: "iron", Stage: StageCircle, Err: ErrDegenerateGeometry}
	wrapped := fmt.Errorf("run failed: %w", inner)

	re, ok := AsRegionError(wrapped)
	if !ok || re != inner {
		t.Fatalf("AsRegionError(wrapped) = %v, %v", re, ok)
	}
	if Kind(wrapped) != ErrDegenerateGeometry {
		t.Errorf("Kind() = %v", Kind(wrapped))
	}
	if re, ok := AsRegionError(ErrInvalidRegion); ok || re != nil {
		t.Errorf("AsRegionError(sentinel) = %v, %v", re, ok)
	}
}
