package cardseg

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a region yields fewer than three
	// non-empty clusters, or when too few points reach the circle or arc fit.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateGeometry is returned when the circle fit system is rank
	// deficient (collinear or coincident points).
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrInvalidRegion is returned for malformed bounds or bounds outside the
	// image.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrDegenerateArc is returned in strict mode when the accent pixels form
	// a closed ring with no opening.
	ErrDegenerateArc = errors.New("degenerate arc")
)

// Stage names the pipeline step a RegionError came from.
type Stage string

const (
	StageBounds   Stage = "bounds"
	StageCluster  Stage = "cluster"
	StageClassify Stage = "classify"
	StageCircle   Stage = "circle"
	StageArc      Stage = "arc"
	StageResult   Stage = "result"
)

// RegionError reports which region failed and where.
type RegionError struct {
	RegionID string
	Stage    Stage
	Err      error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("region %q: %s: %v", e.RegionID, e.Stage, e.Err)
}

func (e *RegionError) Unwrap() error { return e.Err }

// Kind returns the sentinel error that classifies err, or nil when err does
// not wrap one of the package's error kinds.
func Kind(err error) error {
	for _, k := range []error{ErrInsufficientData, ErrDegenerateGeometry, ErrInvalidRegion, ErrDegenerateArc} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
