package sheetbuilder

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultThreshold is the L*a*b* distance below which a pixel counts as
// backdrop. 20 comfortably separates a flat render backdrop from shaded
// subject pixels at typical sprite resolutions.
const DefaultThreshold = 20.0

// Mask marks backdrop pixels of a frame, row-major, len(Pix) = W*H.
type Mask struct {
	W, H int
	Pix  []bool
}

// SegmentBackground marks every pixel whose Euclidean L*a*b* distance to ref
// is strictly below threshold. A threshold of 0 marks nothing.
func SegmentBackground(lab *LabBuffer, ref Sample, threshold float64) *Mask {
	m := &Mask{
		W:   lab.W,
		H:   lab.H,
		Pix: make([]bool, lab.W*lab.H),
	}
	for i := range m.Pix {
		off := i * 3
		dL := lab.Pix[off] - ref.L
		dA := lab.Pix[off+1] - ref.A
		dB := lab.Pix[off+2] - ref.B
		m.Pix[i] = math.Sqrt(dL*dL+dA*dA+dB*dB) < threshold
	}
	return m
}

// At reports whether (x, y) is backdrop.
func (m *Mask) At(x, y int) bool {
	return m.Pix[y*m.W+x]
}

// Count returns the number of marked pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Apply writes transparent black over every marked pixel of img, leaving
// the rest untouched. img must share the mask's dimensions.
func (m *Mask) Apply(img *image.NRGBA) {
	for y := range m.H {
		for x := range m.W {
			if !m.Pix[y*m.W+x] {
				continue
			}
			off := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			img.Pix[off] = 0
			img.Pix[off+1] = 0
			img.Pix[off+2] = 0
			img.Pix[off+3] = 0
		}
	}
}

// KeyFromTopLeft returns the top-left sample, conventionally assumed to be
// pure backdrop on a freshly composed frame sheet.
func KeyFromTopLeft(lab *LabBuffer) Sample {
	return lab.At(0, 0)
}

// DistanceRange reports the smallest and largest distance from ref across
// the buffer, useful for picking a threshold for a new scene.
func DistanceRange(lab *LabBuffer, ref Sample) (lo, hi float64) {
	n := lab.W * lab.H
	if n == 0 {
		return 0, 0
	}
	dists := make([]float64, n)
	for i := range dists {
		off := i * 3
		dL := lab.Pix[off] - ref.L
		dA := lab.Pix[off+1] - ref.A
		dB := lab.Pix[off+2] - ref.B
		dists[i] = math.Sqrt(dL*dL + dA*dA + dB*dB)
	}
	return floats.Min(dists), floats.Max(dists)
}

// KeyOut removes the backdrop color from img in place. If key is nil the
// top-left pixel is taken as the backdrop sample.
func KeyOut(img *image.NRGBA, key *Sample, threshold float64) {
	lab := RGBToLab(NewRGBBuffer(img))
	ref := KeyFromTopLeft(lab)
	if key != nil {
		ref = *key
	}
	SegmentBackground(lab, ref, threshold).Apply(img)
}
