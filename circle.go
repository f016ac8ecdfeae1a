package cardseg

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// maxFitCondition bounds the condition number of the circle design matrix.
// Above it the points are treated as collinear or coincident.
const maxFitCondition = 1e12

// FitCircle fits x²+y² = 2·cx·x + 2·cy·y + c in the least-squares sense and
// returns the centre and radius sqrt(max(cx²+cy²+c, 0)).
func FitCircle(points []Point) (CircleFit, error) {
	n := len(points)
	if n < 3 {
		return CircleFit{}, fmt.Errorf("%w: circle fit needs 3 points, got %d", ErrInsufficientData, n)
	}

	A := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i, p := range points {
		A.Set(i, 0, 2*p.X)
		A.Set(i, 1, 2*p.Y)
		A.Set(i, 2, 1)
		b.SetVec(i, p.X*p.X+p.Y*p.Y)
	}

	var qr mat.QR
	qr.Factorize(A)
	if c := qr.Cond(); math.IsNaN(c) || c > maxFitCondition {
		return CircleFit{}, fmt.Errorf("%w: circle fit condition number %g", ErrDegenerateGeometry, c)
	}

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return CircleFit{}, fmt.Errorf("%w: %v", ErrDegenerateGeometry, err)
		}
		return CircleFit{}, err
	}

	cx, cy, c := params.AtVec(0), params.AtVec(1), params.AtVec(2)
	return CircleFit{
		CenterX: cx,
		CenterY: cy,
		Radius:  math.Sqrt(max(cx*cx+cy*cy+c, 0)),
	}, nil
}
