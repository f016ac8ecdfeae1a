package utils

import (
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod accepts the names returned by String.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(s) {
	case "dominantcolor", "dominant":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette method %q (valid: dominantcolor, kmeans)", s)
}

// Swatch is a palette entry. Weight is the share of the image it covers.
type Swatch struct {
	Color  colorful.Color
	Weight float64
}

func (s Swatch) Hex() string { return s.Color.Clamped().Hex() }

// SortByLightness orders swatches from darkest to lightest by relative
// luminance.
func SortByLightness(palette []Swatch) {
	slices.SortStableFunc(palette, func(a, b Swatch) int {
		ya, yb := luminance(a.Color), luminance(b.Color)
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
}

// SortByWeight orders swatches from most to least frequent.
func SortByWeight(palette []Swatch) {
	slices.SortStableFunc(palette, func(a, b Swatch) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ExtractPalette returns up to k whole-image dominant colours. The kmeans
// method falls back to dominantcolor when clustering yields nothing.
func ExtractPalette(img image.Image, k int, method PaletteMethod) ([]Swatch, error) {
	if k <= 0 {
		return nil, fmt.Errorf("colour count must be at least 1, got %d", k)
	}
	if method == PaletteMethodKMeans {
		p, err := ExtractKMeansPalette(img, k)
		if err == nil && len(p) != 0 {
			return p, nil
		}
	}
	p := ExtractDominantPalette(img, k)
	if len(p) == 0 {
		return nil, fmt.Errorf("no colours found in image")
	}
	return p, nil
}

func ExtractDominantPalette(img image.Image, k int) []Swatch {
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	cands := make([]Swatch, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		cands = append(cands, Swatch{Color: col.Clamped(), Weight: c.Weight})
	}
	return SelectDiverse(cands, k)
}

func ExtractKMeansPalette(img image.Image, k int) ([]Swatch, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("empty image")
	}

	// Subsample so large mockups stay tractable.
	const maxSamples = 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			col, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, a, bb := col.Lab()
			dataset = append(dataset, clusters.Coordinates{l, a, bb})
		}
	}
	if len(dataset) == 0 {
		return nil, fmt.Errorf("image has no opaque pixels")
	}

	workK := min(max(k*4, k+2), len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil {
		return nil, err
	}

	total := float64(len(dataset))
	cands := make([]Swatch, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		cands = append(cands, Swatch{
			Color:  colorful.Lab(c.Center[0], c.Center[1], c.Center[2]).Clamped(),
			Weight: float64(len(c.Observations)) / total,
		})
	}
	SortByWeight(cands)
	return SelectDiverse(cands, k), nil
}

// SelectDiverse greedily picks k candidates, starting from the heaviest and
// then maximising Lab distance to the picks so far, scaled by weight.
func SelectDiverse(cands []Swatch, k int) []Swatch {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	type item struct {
		Swatch
		lab [3]float64
	}
	items := make([]item, len(cands))
	maxW := 0.0
	for i, c := range cands {
		l, a, b := c.Color.Lab()
		w := max(c.Weight, 1e-6)
		items[i] = item{Swatch: Swatch{Color: c.Color, Weight: w}, lab: [3]float64{l, a, b}}
		maxW = max(maxW, w)
	}

	selected := make([]bool, len(items))
	picks := make([]int, 0, k)
	seed := 0
	for i := range items {
		if items[i].Weight > items[seed].Weight {
			seed = i
		}
	}
	picks = append(picks, seed)
	selected[seed] = true

	for len(picks) < k {
		bestIdx, bestScore := -1, -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range picks {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].Weight/maxW))
			if score > bestScore {
				bestScore, bestIdx = score, i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		picks = append(picks, bestIdx)
	}

	out := make([]Swatch, len(picks))
	for i, idx := range picks {
		out[i] = items[idx].Swatch
	}
	return out
}
