package cardseg

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestEstimateArcOpenArc(t *testing.T) {
	fit := CircleFit{CenterX: 50, CenterY: 50, Radius: 20}
	pts := make([]Point, 0, 161)
	for deg := 10; deg <= 170; deg++ {
		r := float64(deg) * math.Pi / 180
		pts = append(pts, Point{X: 50 + 20*math.Cos(r), Y: 50 + 20*math.Sin(r)})
	}

	arc, err := EstimateArc(fit, pts, DefaultArcOptions())
	if err != nil {
		t.Fatalf("EstimateArc() error = %v", err)
	}
	const tol = 1e-6
	if math.Abs(arc.StartDeg-10) > tol {
		t.Errorf("start = %f, want 10", arc.StartDeg)
	}
	if math.Abs(arc.EndDeg-170) > tol {
		t.Errorf("end = %f, want 170", arc.EndDeg)
	}
	if arc.Sweep() >= 359 {
		t.Errorf("sweep = %f, expected the opening to be excluded", arc.Sweep())
	}
}

func TestEstimateArcAcrossWrap(t *testing.T) {
	// Arc from 300° through 0° to 60°, opening on the left.
	fit := CircleFit{CenterX: 0, CenterY: 0, Radius: 10}
	pts := circlePoints(0, 0, 10, 121, -60, 61)

	arc, err := EstimateArc(fit, pts, DefaultArcOptions())
	if err != nil {
		t.Fatalf("EstimateArc() error = %v", err)
	}
	if math.Abs(arc.StartDeg+60) > 1e-6 {
		t.Errorf("start = %f, want -60", arc.StartDeg)
	}
	if math.Abs(arc.Sweep()-120) > 1.1 {
		t.Errorf("sweep = %f, want about 120", arc.Sweep())
	}
}

func TestEstimateArcClosedRing(t *testing.T) {
	fit := CircleFit{CenterX: 0, CenterY: 0, Radius: 10}
	pts := circlePoints(0, 0, 10, 360, 0, 360)

	opt := DefaultArcOptions()
	arc, err := EstimateArc(fit, pts, opt)
	if err != nil {
		t.Fatalf("EstimateArc() error = %v", err)
	}
	if !arc.Closed(opt.MinGapDeg) {
		t.Errorf("arc with sweep %f should be reported closed", arc.Sweep())
	}

	opt.Strict = true
	if _, err := EstimateArc(fit, pts, opt); !errors.Is(err, ErrDegenerateArc) {
		t.Errorf("strict EstimateArc() error = %v, want ErrDegenerateArc", err)
	}
}

func TestEstimateArcTooFewPoints(t *testing.T) {
	_, err := EstimateArc(CircleFit{}, []Point{{1, 1}}, DefaultArcOptions())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("EstimateArc() error = %v, want ErrInsufficientData", err)
	}
}

func TestStrokeWidthClamped(t *testing.T) {
	opt := DefaultArcOptions()
	fit := CircleFit{CenterX: 100, CenterY: 100, Radius: 40}
	rng := rand.New(rand.NewPCG(5, 5))

	tight := circlePoints(100, 100, 40, 200, 0, 360)
	loose := make([]Point, 200)
	for i := range loose {
		r := 40 + (rng.Float64()-0.5)*200
		a := rng.Float64() * 2 * math.Pi
		loose[i] = Point{X: 100 + r*math.Cos(a), Y: 100 + r*math.Sin(a)}
	}
	band := make([]Point, 0, 200)
	for i := range 200 {
		r := 40.0 + float64(i%2)*8 - 4 // std-dev 4 -> 10px
		a := float64(i) * math.Pi / 100
		band = append(band, Point{X: 100 + r*math.Cos(a), Y: 100 + r*math.Sin(a)})
	}

	tests := []struct {
		name string
		pts  []Point
		want float64
	}{
		{"tight", tight, opt.StrokeMin},
		{"dispersed", loose, opt.StrokeMax},
		{"band", band, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StrokeWidth(fit, tt.pts, opt)
			if got < opt.StrokeMin || got > opt.StrokeMax {
				t.Fatalf("stroke %f outside [%f, %f]", got, opt.StrokeMin, opt.StrokeMax)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("stroke = %f, want %f", got, tt.want)
			}
		})
	}
}
