// Package cardseg segments rectangular card regions of a UI mockup into
// background, accent and text colours and fits the circular accent arc
// drawn on each card.
package cardseg

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

type Options struct {
	// Number of k-means clusters per region.
	// 4 separates background, accent, text and one anti-aliasing/shadow band.
	// Below 3 classification can never succeed.
	K int
	// Fixed Lloyd iteration budget. There is no convergence test.
	// 20-30 is plenty for flat UI mockups.
	Iterations int
	// Seed for the initial centroid choice. Same seed, same manifest.
	Seed uint64
	// Stroke width clamp and closed-ring policy for the accent arc.
	Arc ArcOptions
	// Logger receives per-region debug lines. Nil disables logging.
	Logger hclog.Logger
	// Progress, if set, is called after each region completes.
	Progress func(r Region, res SegmentResult)
}

func DefaultOptions() Options {
	return Options{
		K:          4,
		Iterations: 30,
		Seed:       42,
		Arc:        DefaultArcOptions(),
	}
}

// Segmenter runs the per-region pipeline over one source image. It never
// mutates the image, so one Segmenter may serve concurrent callers.
type Segmenter struct {
	Image  RGBImage
	opt    Options
	logger hclog.Logger
}

func NewSegmenter(img RGBImage, opt Options) *Segmenter {
	logger := opt.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Segmenter{
		Image:  img,
		opt:    opt,
		logger: logger.Named("segmenter"),
	}
}

// Segment processes every region and aborts on the first failure. The
// returned error is a *RegionError.
func (s *Segmenter) Segment(regions []Region) (map[string]SegmentResult, error) {
	seen := make(map[string]bool, len(regions))
	for _, r := range regions {
		if seen[r.ID] {
			return nil, &RegionError{RegionID: r.ID, Stage: StageBounds,
				Err: fmt.Errorf("%w: duplicate region id", ErrInvalidRegion)}
		}
		seen[r.ID] = true
	}

	out := make(map[string]SegmentResult, len(regions))
	for _, r := range regions {
		res, err := s.SegmentRegion(r)
		if err != nil {
			s.logger.Error("region failed", "region", r.ID, "error", err)
			return nil, err
		}
		out[r.ID] = res
		if s.opt.Progress != nil {
			s.opt.Progress(r, res)
		}
	}
	return out, nil
}

// SegmentRegion runs the pipeline for a single region.
func (s *Segmenter) SegmentRegion(r Region) (SegmentResult, error) {
	fail := func(stage Stage, err error) (SegmentResult, error) {
		return SegmentResult{}, &RegionError{RegionID: r.ID, Stage: stage, Err: err}
	}
	log := s.logger.With("region", r.ID)

	if _, err := NewRegion(r.ID, r.Name, r.Bounds); err != nil {
		return fail(StageBounds, err)
	}
	if !s.Image.Contains(r.Bounds) {
		return fail(StageBounds, fmt.Errorf("%w: bounds (%d,%d)-(%d,%d) exceed %dx%d image",
			ErrInvalidRegion, r.Bounds.X0, r.Bounds.Y0, r.Bounds.X1, r.Bounds.Y1, s.Image.W, s.Image.H))
	}

	samples := s.Image.samples(r.Bounds)
	km, err := KMeans(labObservations(samples), KMeansConfig{
		K:          s.opt.K,
		Iterations: s.opt.Iterations,
		Seed:       s.opt.Seed,
	})
	if err != nil {
		return fail(StageCluster, err)
	}

	cs := BuildClusters(samples, km)
	log.Debug("clustered", "pixels", len(samples), "clusters", len(cs))

	roles, err := Classify(cs)
	if err != nil {
		return fail(StageClassify, err)
	}
	log.Debug("classified",
		"background", roles.Background.Hex(),
		"accent", roles.Accent.Hex(),
		"text", roles.Text.Hex())

	points := make([]Point, len(roles.Accent.Members))
	for i, si := range roles.Accent.Members {
		points[i] = Point{
			X: float64(samples[si].Col + r.Bounds.X0),
			Y: float64(samples[si].Row + r.Bounds.Y0),
		}
	}

	fit, err := FitCircle(points)
	if err != nil {
		return fail(StageCircle, err)
	}
	arc, err := EstimateArc(fit, points, s.opt.Arc)
	if err != nil {
		return fail(StageArc, err)
	}
	if arc.Closed(s.opt.Arc.MinGapDeg) {
		log.Warn("accent looks like a closed ring, arc span is unreliable",
			"sweep", arc.Sweep())
	}
	log.Debug("fitted accent",
		"cx", fit.CenterX, "cy", fit.CenterY, "radius", fit.Radius,
		"start", arc.StartDeg, "end", arc.EndDeg, "stroke", arc.StrokeWidth)

	res, err := NewSegmentResult(r, Colours{
		Background: roles.Background.Hex(),
		Accent:     roles.Accent.Hex(),
		Text:       roles.Text.Hex(),
	}, fit, arc, s.opt.Arc.StrokeMin, s.opt.Arc.StrokeMax)
	if err != nil {
		return fail(StageResult, err)
	}
	return res, nil
}

// AsRegionError reports whether err came from a specific region and returns
// that error.
func AsRegionError(err error) (*RegionError, bool) {
	var re *RegionError
	ok := errors.As(err, &re)
	return re, ok
}
