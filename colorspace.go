package sheetbuilder

import (
	"image"
	"image/color"
	"math"
)

// RGBBuffer is an interleaved RGB pixel plane with channel values in
// [0,255], len(Pix) = W*H*3.
type RGBBuffer struct {
	W, H int
	Pix  []float64
}

// LabBuffer is an interleaved CIE L*a*b* pixel plane, len(Pix) = W*H*3.
type LabBuffer struct {
	W, H int
	Pix  []float64
}

// Sample is a single point in L*a*b* space.
type Sample struct {
	L, A, B float64
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 3
}

// NewRGBBuffer copies img into a flat RGB plane, dropping alpha.
func NewRGBBuffer(img image.Image) *RGBBuffer {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	buf := &RGBBuffer{
		W:   w,
		H:   h,
		Pix: make([]float64, h*w*3),
	}
	for y := range h {
		for x := range w {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := pixOffset(w, x, y)
			buf.Pix[off] = float64(r >> 8)
			buf.Pix[off+1] = float64(g >> 8)
			buf.Pix[off+2] = float64(b >> 8)
		}
	}
	return buf
}

// At returns the sample at (x, y).
func (b *LabBuffer) At(x, y int) Sample {
	off := pixOffset(b.W, x, y)
	return Sample{L: b.Pix[off], A: b.Pix[off+1], B: b.Pix[off+2]}
}

// ============ RGB → LAB ============

// Color transformation formulae courtesy of https://www.easyrgb.com/en/math.php
// L*a*b* distances track perceived color difference far better than RGB
// distances, which is what makes the chroma threshold meaningful.

// Observer = 2°, Illuminant = D65.
const (
	refWhiteX = 95.047
	refWhiteY = 100.0
	refWhiteZ = 108.883
)

func linearize(v float64) float64 {
	v /= 255
	if v > 0.04045 {
		v = math.Pow((v+0.055)/1.055, 2.4)
	} else {
		v /= 12.92
	}
	return v * 100
}

func labForward(v float64) float64 {
	if v > 0.008856 {
		return math.Cbrt(v)
	}
	return 7.787*v + 16.0/116.0
}

func rgbToLab(r, g, b float64) (float64, float64, float64) {
	lr := linearize(r)
	lg := linearize(g)
	lb := linearize(b)

	x := lr*0.4124 + lg*0.3576 + lb*0.1805
	y := lr*0.2126 + lg*0.7152 + lb*0.0722
	z := lr*0.0193 + lg*0.1192 + lb*0.9505

	fx := labForward(x / refWhiteX)
	fy := labForward(y / refWhiteY)
	fz := labForward(z / refWhiteZ)

	return 116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)
}

// RGBToLab converts src elementwise into a new L*a*b* plane. Pure function;
// src is left untouched.
func RGBToLab(src *RGBBuffer) *LabBuffer {
	dst := &LabBuffer{
		W:   src.W,
		H:   src.H,
		Pix: make([]float64, len(src.Pix)),
	}
	for off := 0; off < len(src.Pix); off += 3 {
		l, a, b := rgbToLab(src.Pix[off], src.Pix[off+1], src.Pix[off+2])
		dst.Pix[off] = l
		dst.Pix[off+1] = a
		dst.Pix[off+2] = b
	}
	return dst
}

// SampleFromColor converts a single color through the same transform as
// RGBToLab, for caller-supplied key colors.
func SampleFromColor(c color.Color) Sample {
	r, g, b, _ := c.RGBA()
	l, a, bb := rgbToLab(float64(r>>8), float64(g>>8), float64(b>>8))
	return Sample{L: l, A: a, B: bb}
}
