// Package config loads the card layout and segmentation settings for a
// reference image.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/setanarut/cardseg"
)

// ErrInvalidSegmentation is returned for segmentation settings that can
// never produce a result.
var ErrInvalidSegmentation = errors.New("invalid segmentation settings")

// RegionSpec is one card entry in a layout file.
type RegionSpec struct {
	ID     string         `yaml:"id"`
	Name   string         `yaml:"name"`
	Bounds cardseg.Bounds `yaml:"bounds"`
}

// Segmentation overrides cardseg.DefaultOptions. Zero values keep the
// defaults.
type Segmentation struct {
	K          int      `yaml:"k"`
	Iterations int      `yaml:"iterations"`
	Seed       *uint64  `yaml:"seed"`
	StrokeMin  float64  `yaml:"stroke_min"`
	StrokeMax  float64  `yaml:"stroke_max"`
	MinGapDeg  *float64 `yaml:"min_gap_deg"`
	StrictArcs bool     `yaml:"strict_arcs"`
}

// File is the layout document. JSON documents of the same shape are
// accepted too.
type File struct {
	Regions      []RegionSpec `yaml:"regions"`
	Segmentation Segmentation `yaml:"segmentation"`
}

// Default is the shot-selection screen layout: four club cards in a 2x2
// grid.
func Default() File {
	return File{Regions: []RegionSpec{
		{ID: "driver", Name: "Driver", Bounds: cardseg.Bounds{X0: 320, Y0: 160, X1: 660, Y1: 390}},
		{ID: "iron", Name: "4 Iron", Bounds: cardseg.Bounds{X0: 660, Y0: 160, X1: 1000, Y1: 390}},
		{ID: "wedge", Name: "Sand Wedge", Bounds: cardseg.Bounds{X0: 320, Y0: 440, X1: 660, Y1: 770}},
		{ID: "putter", Name: "Putter", Bounds: cardseg.Bounds{X0: 660, Y0: 440, X1: 1000, Y1: 770}},
	}}
}

// Load reads a layout file. An empty path returns Default.
func Load(path string) (File, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 - user-specified layout file
	if err != nil {
		return File{}, fmt.Errorf("failed to read layout: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a layout document.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("layout is empty")
		}
		return File{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	if _, err := f.RegionList(); err != nil {
		return File{}, err
	}
	if err := f.Segmentation.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks the settings as they apply on top of the defaults.
func (s Segmentation) Validate() error {
	if s.K < 0 || s.Iterations < 0 || s.StrokeMin < 0 || s.StrokeMax < 0 {
		return fmt.Errorf("%w: k, iterations and stroke bounds must not be negative", ErrInvalidSegmentation)
	}
	arc := s.Apply(cardseg.DefaultOptions()).Arc
	if arc.StrokeMin > arc.StrokeMax {
		return fmt.Errorf("%w: stroke_min %g exceeds stroke_max %g", ErrInvalidSegmentation, arc.StrokeMin, arc.StrokeMax)
	}
	if arc.MinGapDeg < 0 || arc.MinGapDeg >= 360 {
		return fmt.Errorf("%w: min_gap_deg %g outside [0, 360)", ErrInvalidSegmentation, arc.MinGapDeg)
	}
	return nil
}

// RegionList validates the entries and returns them in file order.
func (f File) RegionList() ([]cardseg.Region, error) {
	if len(f.Regions) == 0 {
		return nil, fmt.Errorf("layout defines no regions")
	}
	seen := make(map[string]bool, len(f.Regions))
	out := make([]cardseg.Region, 0, len(f.Regions))
	for i, spec := range f.Regions {
		r, err := cardseg.NewRegion(spec.ID, spec.Name, spec.Bounds)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("region %d: %w: duplicate id %q", i, cardseg.ErrInvalidRegion, r.ID)
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out, nil
}

// Apply overlays the file's settings on opt.
func (s Segmentation) Apply(opt cardseg.Options) cardseg.Options {
	if s.K > 0 {
		opt.K = s.K
	}
	if s.Iterations > 0 {
		opt.Iterations = s.Iterations
	}
	if s.Seed != nil {
		opt.Seed = *s.Seed
	}
	if s.StrokeMin > 0 {
		opt.Arc.StrokeMin = s.StrokeMin
	}
	if s.StrokeMax > 0 {
		opt.Arc.StrokeMax = s.StrokeMax
	}
	if s.MinGapDeg != nil {
		opt.Arc.MinGapDeg = *s.MinGapDeg
	}
	if s.StrictArcs {
		opt.Arc.Strict = true
	}
	return opt
}
