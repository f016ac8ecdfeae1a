package cardseg

import (
	"errors"
	"math"
	"testing"
)

func circlePoints(cx, cy, r float64, n int, fromDeg, toDeg float64) []Point {
	pts := make([]Point, n)
	for i := range n {
		t := (fromDeg + (toDeg-fromDeg)*float64(i)/float64(n)) * math.Pi / 180
		pts[i] = Point{X: cx + r*math.Cos(t), Y: cy + r*math.Sin(t)}
	}
	return pts
}

func TestFitCircleExact(t *testing.T) {
	fit, err := FitCircle(circlePoints(50, 50, 20, 100, 0, 360))
	if err != nil {
		t.Fatalf("FitCircle() error = %v", err)
	}
	const tol = 1e-6
	if math.Abs(fit.CenterX-50) > tol || math.Abs(fit.CenterY-50) > tol {
		t.Errorf("centre = (%f, %f), want (50, 50)", fit.CenterX, fit.CenterY)
	}
	if math.Abs(fit.Radius-20) > tol {
		t.Errorf("radius = %f, want 20", fit.Radius)
	}
}

func TestFitCirclePartialArc(t *testing.T) {
	fit, err := FitCircle(circlePoints(640, 275, 85, 60, 200, 320))
	if err != nil {
		t.Fatalf("FitCircle() error = %v", err)
	}
	const tol = 1e-4
	if math.Abs(fit.CenterX-640) > tol || math.Abs(fit.CenterY-275) > tol || math.Abs(fit.Radius-85) > tol {
		t.Errorf("fit = %+v, want centre (640, 275) radius 85", fit)
	}
}

func TestFitCircleErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   error
	}{
		{"two points", []Point{{0, 0}, {1, 1}}, ErrInsufficientData},
		{"collinear", []Point{{0, 5}, {1, 5}, {2, 5}, {3, 5}}, ErrDegenerateGeometry},
		{"coincident", []Point{{7, 7}, {7, 7}, {7, 7}}, ErrDegenerateGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitCircle(tt.points)
			if !errors.Is(err, tt.want) {
				t.Errorf("FitCircle() error = %v, want %v", err, tt.want)
			}
		})
	}
}
