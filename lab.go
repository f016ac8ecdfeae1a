package cardseg

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBImage is a decoded image as interleaved 8-bit RGB, len(Pix) = W*H*3.
type RGBImage struct {
	W, H int
	Pix  []uint8
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 3
}

// NewRGBImage wraps an existing interleaved buffer.
func NewRGBImage(w, h int, pix []uint8) (RGBImage, error) {
	if w <= 0 || h <= 0 {
		return RGBImage{}, fmt.Errorf("image size %dx%d is empty", w, h)
	}
	if len(pix) != w*h*3 {
		return RGBImage{}, fmt.Errorf("pixel buffer has %d bytes, want %d", len(pix), w*h*3)
	}
	return RGBImage{W: w, H: h, Pix: pix}, nil
}

// RGBImageFrom flattens any image.Image, dropping alpha.
func RGBImageFrom(img image.Image) RGBImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := RGBImage{
		W:   w,
		H:   h,
		Pix: make([]uint8, w*h*3),
	}
	for y := range h {
		for x := range w {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := pixOffset(w, x, y)
			out.Pix[off] = uint8(r >> 8)
			out.Pix[off+1] = uint8(g >> 8)
			out.Pix[off+2] = uint8(b >> 8)
		}
	}
	return out
}

// At returns the RGB triple at (x, y).
func (m RGBImage) At(x, y int) [3]uint8 {
	off := pixOffset(m.W, x, y)
	return [3]uint8{m.Pix[off], m.Pix[off+1], m.Pix[off+2]}
}

// Contains reports whether b lies fully inside the image.
func (m RGBImage) Contains(b Bounds) bool {
	return b.X0 >= 0 && b.Y0 >= 0 && b.X1 <= m.W && b.Y1 <= m.H
}

// RGBToLab converts sRGB triples to CIE L*a*b* (D65) on the usual scale,
// L* in [0,100].
func RGBToLab(pixels [][3]uint8) [][3]float64 {
	out := make([][3]float64, len(pixels))
	for i, p := range pixels {
		c := colorful.Color{
			R: float64(p[0]) / 255.0,
			G: float64(p[1]) / 255.0,
			B: float64(p[2]) / 255.0,
		}
		l, a, b := c.Lab()
		// go-colorful works in hundredths.
		out[i] = [3]float64{l * 100, a * 100, b * 100}
	}
	return out
}

// samples crops b out of m, row-major, and fills in Lab values.
func (m RGBImage) samples(b Bounds) []PixelSample {
	w, h := b.Dx(), b.Dy()
	rgb := make([][3]uint8, 0, w*h)
	for y := range h {
		for x := range w {
			rgb = append(rgb, m.At(b.X0+x, b.Y0+y))
		}
	}
	lab := RGBToLab(rgb)
	out := make([]PixelSample, len(rgb))
	for i := range rgb {
		out[i] = PixelSample{
			RGB: rgb[i],
			Lab: lab[i],
			Row: i / w,
			Col: i % w,
		}
	}
	return out
}

// hexFromMean formats a mean RGB colour (channels in [0,255]) as #rrggbb.
// Channels are clamped and truncated, not rounded.
func hexFromMean(rgb [3]float64) string {
	var ch [3]float64
	for i, v := range rgb {
		ch[i] = math.Floor(min(max(v, 0), 255)) / 255.0
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}.Hex()
}
