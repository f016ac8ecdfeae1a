package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	"image/png"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/setanarut/cardseg"
)

// ReadImage decodes a PNG, JPEG, GIF or WebP file.
func ReadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}
	file, err := os.Open(path) // #nosec G304 - user-supplied reference image
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("reference image missing: %s", path)
		}
		return nil, err
	}
	defer file.Close()
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %q): %w", format, err)
	}
	return img, nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DrawOverlay copies src and draws, for every result, the region outline in
// its text colour and the fitted accent arc in the accent's complementary
// hue, stroke width included.
func DrawOverlay(src image.Image, results []cardseg.SegmentResult) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)

	for _, res := range results {
		outline := parseHex(res.TextColor)
		strokeRect(out, res.Bounds, outline)

		accent, err := colorful.Hex(res.AccentColor)
		if err != nil {
			continue
		}
		h, c, l := accent.Hcl()
		mark := toRGBA(colorful.Hcl(math.Mod(h+180, 360), c, l).Clamped())
		strokeArc(out, res.Accent, mark)
	}
	return out
}

func strokeRect(img *image.RGBA, b cardseg.Bounds, c color.RGBA) {
	for x := b.X0; x < b.X1; x++ {
		img.SetRGBA(x, b.Y0, c)
		img.SetRGBA(x, b.Y1-1, c)
	}
	for y := b.Y0; y < b.Y1; y++ {
		img.SetRGBA(b.X0, y, c)
		img.SetRGBA(b.X1-1, y, c)
	}
}

func strokeArc(img *image.RGBA, a cardseg.AccentGeometry, c color.RGBA) {
	half := a.StrokeWidth / 2
	// One sample per pixel of arc length at the outer edge.
	outer := a.Radius + half
	steps := max(int(outer*(a.EndAngleDeg-a.StartAngleDeg)*math.Pi/180), 1)
	for i := 0; i <= steps; i++ {
		t := (a.StartAngleDeg + (a.EndAngleDeg-a.StartAngleDeg)*float64(i)/float64(steps)) * math.Pi / 180
		cos, sin := math.Cos(t), math.Sin(t)
		for r := a.Radius - half; r <= outer; r += 0.5 {
			x := int(math.Round(a.CenterX + r*cos))
			y := int(math.Round(a.CenterY + r*sin))
			if image.Pt(x, y).In(img.Rect) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func parseHex(s string) color.RGBA {
	col, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return toRGBA(col)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
