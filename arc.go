package cardseg

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ArcOptions tunes EstimateArc.
type ArcOptions struct {
	// StrokeScale multiplies the std-dev of radial distances.
	StrokeScale float64
	// StrokeMin and StrokeMax clamp the stroke width, in pixels.
	StrokeMin, StrokeMax float64
	// MinGapDeg is the smallest opening, in degrees, for the accent to count
	// as an open arc rather than a closed ring.
	MinGapDeg float64
	// Strict turns a closed ring into ErrDegenerateArc.
	Strict bool
}

// DefaultArcOptions returns the stroke clamp [6, 26] with a 2.5 scale.
func DefaultArcOptions() ArcOptions {
	return ArcOptions{
		StrokeScale: 2.5,
		StrokeMin:   6,
		StrokeMax:   26,
		MinGapDeg:   5,
	}
}

// Closed reports whether the arc leaves an opening smaller than minGapDeg.
func (a ArcGeometry) Closed(minGapDeg float64) bool {
	return 360-a.Sweep() < minGapDeg
}

// EstimateArc finds the largest angular gap between the points as seen
// from the fitted centre and returns its complement as the arc. The start
// angle is the first point after the gap.
func EstimateArc(fit CircleFit, points []Point, opt ArcOptions) (ArcGeometry, error) {
	n := len(points)
	if n < 2 {
		return ArcGeometry{}, fmt.Errorf("%w: arc estimate needs 2 points, got %d", ErrInsufficientData, n)
	}

	theta := make([]float64, n)
	for i, p := range points {
		theta[i] = math.Atan2(p.Y-fit.CenterY, p.X-fit.CenterX)
	}
	slices.Sort(theta)

	gapIdx := 0
	gap := -1.0
	for i := range n {
		next := theta[0] + 2*math.Pi
		if i+1 < n {
			next = theta[i+1]
		}
		if d := next - theta[i]; d > gap {
			gap = d
			gapIdx = i
		}
	}

	start := theta[(gapIdx+1)%n]
	sweep := 2*math.Pi - gap
	arc := ArcGeometry{
		StartDeg:    degrees(start),
		EndDeg:      degrees(start + sweep),
		StrokeWidth: StrokeWidth(fit, points, opt),
	}
	if opt.Strict && arc.Closed(opt.MinGapDeg) {
		return ArcGeometry{}, fmt.Errorf("%w: largest opening is %.2f degrees", ErrDegenerateArc, degrees(gap))
	}
	return arc, nil
}

// StrokeWidth estimates the stroke as StrokeScale times the population
// std-dev of the points' distances from the centre, clamped to
// [StrokeMin, StrokeMax].
func StrokeWidth(fit CircleFit, points []Point, opt ArcOptions) float64 {
	radii := make([]float64, len(points))
	for i, p := range points {
		radii[i] = math.Hypot(p.X-fit.CenterX, p.Y-fit.CenterY)
	}
	w := 0.0
	if len(radii) > 0 {
		w = stat.PopStdDev(radii, nil) * opt.StrokeScale
	}
	return min(max(w, opt.StrokeMin), opt.StrokeMax)
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
