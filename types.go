package cardseg

import (
	"fmt"
	"regexp"
)

// Bounds is a half-open pixel rectangle: columns [X0,X1), rows [Y0,Y1).
type Bounds struct {
	X0 int `json:"x0" yaml:"x0"`
	Y0 int `json:"y0" yaml:"y0"`
	X1 int `json:"x1" yaml:"x1"`
	Y1 int `json:"y1" yaml:"y1"`
}

func (b Bounds) Dx() int { return b.X1 - b.X0 }
func (b Bounds) Dy() int { return b.Y1 - b.Y0 }

// Area is the number of pixels covered by b.
func (b Bounds) Area() int { return b.Dx() * b.Dy() }

// Region is a named card inside the source image.
type Region struct {
	ID     string
	Name   string
	Bounds Bounds
}

// NewRegion validates the id and bounds ordering. Whether the bounds fit
// inside a particular image is checked by the Segmenter.
func NewRegion(id, name string, b Bounds) (Region, error) {
	if id == "" {
		return Region{}, fmt.Errorf("%w: empty region id", ErrInvalidRegion)
	}
	if b.X0 >= b.X1 || b.Y0 >= b.Y1 {
		return Region{}, fmt.Errorf("%w: %q bounds (%d,%d)-(%d,%d) are not ordered",
			ErrInvalidRegion, id, b.X0, b.Y0, b.X1, b.Y1)
	}
	if b.X0 < 0 || b.Y0 < 0 {
		return Region{}, fmt.Errorf("%w: %q bounds start at negative coordinates", ErrInvalidRegion, id)
	}
	if name == "" {
		name = id
	}
	return Region{ID: id, Name: name, Bounds: b}, nil
}

// PixelSample is one pixel of a region, in source and Lab space.
// Row and Col are local to the region.
type PixelSample struct {
	RGB      [3]uint8
	Lab      [3]float64
	Row, Col int
}

// Point is a 2D pixel coordinate in image space.
type Point struct {
	X, Y float64
}

// CircleFit is the algebraic least-squares circle through a point set.
type CircleFit struct {
	CenterX float64
	CenterY float64
	Radius  float64
}

// ArcGeometry describes the drawn part of the fitted circle. Angles are in
// degrees measured with image axes (y grows downwards), and EndDeg is
// always >= StartDeg.
type ArcGeometry struct {
	StartDeg    float64
	EndDeg      float64
	StrokeWidth float64
}

// Sweep is the angular extent of the arc in degrees.
func (a ArcGeometry) Sweep() float64 { return a.EndDeg - a.StartDeg }

// AccentGeometry is the serialised form of the accent motif.
type AccentGeometry struct {
	CenterX       float64 `json:"center_x"`
	CenterY       float64 `json:"center_y"`
	Radius        float64 `json:"radius"`
	StartAngleDeg float64 `json:"start_angle_deg"`
	EndAngleDeg   float64 `json:"end_angle_deg"`
	StrokeWidth   float64 `json:"stroke_width"`
}

// SegmentResult is the per-region output record.
type SegmentResult struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Bounds          Bounds         `json:"bounds"`
	BackgroundColor string         `json:"background_color"`
	AccentColor     string         `json:"accent_color"`
	TextColor       string         `json:"text_color"`
	Accent          AccentGeometry `json:"accent"`
}

var hexColour = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// Colours groups the three role colours of a region.
type Colours struct {
	Background, Accent, Text string
}

// NewSegmentResult assembles a result and checks its invariants: lowercase
// #rrggbb colours, a non-negative radius and a stroke width inside
// [strokeMin, strokeMax].
func NewSegmentResult(r Region, c Colours, fit CircleFit, arc ArcGeometry, strokeMin, strokeMax float64) (SegmentResult, error) {
	for _, h := range []string{c.Background, c.Accent, c.Text} {
		if !hexColour.MatchString(h) {
			return SegmentResult{}, fmt.Errorf("region %q: malformed colour %q", r.ID, h)
		}
	}
	if fit.Radius < 0 {
		return SegmentResult{}, fmt.Errorf("region %q: negative radius %f", r.ID, fit.Radius)
	}
	if arc.StrokeWidth < strokeMin || arc.StrokeWidth > strokeMax {
		return SegmentResult{}, fmt.Errorf("region %q: stroke width %f outside [%g, %g]",
			r.ID, arc.StrokeWidth, strokeMin, strokeMax)
	}
	return SegmentResult{
		ID:              r.ID,
		Name:            r.Name,
		Bounds:          r.Bounds,
		BackgroundColor: c.Background,
		AccentColor:     c.Accent,
		TextColor:       c.Text,
		Accent: AccentGeometry{
			CenterX:       fit.CenterX,
			CenterY:       fit.CenterY,
			Radius:        fit.Radius,
			StartAngleDeg: arc.StartDeg,
			EndAngleDeg:   arc.EndDeg,
			StrokeWidth:   arc.StrokeWidth,
		},
	}, nil
}
