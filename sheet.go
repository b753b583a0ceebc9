package sheetbuilder

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Compose pastes tiles onto a fresh canvas at the anchors implied by plan:
// rows stacked top-to-bottom, tiles left-to-right, each tile advancing the
// anchor by its own width. tiles is indexed by Rect.Index.
func Compose(plan Plan, tiles []image.Image) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, plan.Width, plan.Height))
	y := 0
	for _, row := range plan.Rows {
		x := 0
		for _, idx := range row.Indexes {
			tile := tiles[idx]
			b := tile.Bounds()
			r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
			draw.Draw(canvas, r, tile, b.Min, draw.Over)
			x += b.Dx()
		}
		y += row.Height
	}
	return canvas
}

// ComposeGrid pastes same-size frames into the smallest square grid that
// holds them, row-major from the top left.
func ComposeGrid(frames []image.Image, frameW, frameH int) *image.NRGBA {
	g := GridSize(len(frames))
	canvas := image.NewNRGBA(image.Rect(0, 0, g*frameW, g*frameH))
	for i, frame := range frames {
		x := (i % g) * frameW
		y := (i / g) * frameH
		draw.Draw(canvas, image.Rect(x, y, x+frameW, y+frameH), frame, frame.Bounds().Min, draw.Over)
	}
	return canvas
}

// Upscale blows img up by an integer factor with nearest-neighbour
// sampling, keeping pixel-art edges hard. A factor below 2 returns a plain
// copy.
func Upscale(img image.Image, factor int) *image.NRGBA {
	b := img.Bounds()
	if factor < 1 {
		factor = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
