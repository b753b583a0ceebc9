package sheetbuilder

import (
	"fmt"
	"math"
	"slices"
)

// Rect is one tile waiting to be placed on a sheet. Index is the tile's
// position in the caller's original list and survives sorting, so rows can
// be mapped back to source images.
type Rect struct {
	Index  int
	Width  int
	Height int
}

// Row is one horizontal strip of a packing plan. Width is the sum of member
// widths, Height the tallest member.
type Row struct {
	Indexes []int
	Width   int
	Height  int
}

// Plan describes a finished row packing. Width is the widest row and Height
// the sum of row heights; placement is top-to-bottom in row order,
// left-to-right within a row.
type Plan struct {
	Rows   []Row
	Width  int
	Height int
}

// IncompatibleDimensionsError reports tiles whose sizes are not integer
// multiples of the smallest tile. Packing such a set produces misaligned
// seams, so it is rejected up front.
type IncompatibleDimensionsError struct {
	MinWidth  int
	MinHeight int
}

func (e *IncompatibleDimensionsError) Error() string {
	return fmt.Sprintf(
		"tile dimensions do not divide evenly into the smallest tile (narrowest width: %d, smallest height: %d); consider resizing your images",
		e.MinWidth, e.MinHeight)
}

// ValidateDimensions checks that every tile width is a multiple of the
// narrowest width and every height a multiple of the smallest height.
// Call it before Squarify; it has no side effects.
func ValidateDimensions(rects []Rect) error {
	if len(rects) == 0 {
		return nil
	}
	minW, minH := rects[0].Width, rects[0].Height
	for _, r := range rects[1:] {
		minW = min(minW, r.Width)
		minH = min(minH, r.Height)
	}
	for _, r := range rects {
		if r.Width%minW != 0 || r.Height%minH != 0 {
			return &IncompatibleDimensionsError{MinWidth: minW, MinHeight: minH}
		}
	}
	return nil
}

// Squarify packs rects into rows so that the finished canvas is as close to
// square as the row layout allows. Tiles are walked in ascending
// height-then-width order, and N candidate row-width budgets are tried (the
// cumulative width of the first targetCount sorted tiles, targetCount
// counting down from N). The search stops at the first candidate whose
// |width-height| gap regresses, keeping the best plan seen so far.
//
// This is a bounded heuristic, not an optimal bin packer: it assumes the
// squareness curve over budgets is unimodal and never revisits earlier
// budgets. An empty input yields an empty zero-size plan.
func Squarify(rects []Rect) Plan {
	n := len(rects)
	if n == 0 {
		return Plan{}
	}

	sorted := slices.Clone(rects)
	slices.SortStableFunc(sorted, func(a, b Rect) int {
		if a.Height != b.Height {
			return a.Height - b.Height
		}
		return a.Width - b.Width
	})

	// Seed with the trivial single-row layout; the first candidate
	// (targetCount == n) rebuilds it, so this only matters as a floor.
	best := packRows(sorted, totalWidth(sorted))
	bestUnsquare := math.Inf(1)

	for target := n; target >= 1; target-- {
		budget := totalWidth(sorted[:target])
		cand := packRows(sorted, budget)
		unsquare := math.Abs(float64(cand.Width - cand.Height))
		if unsquare > bestUnsquare {
			break
		}
		bestUnsquare = unsquare
		best = cand
	}
	return best
}

func totalWidth(rects []Rect) int {
	w := 0
	for _, r := range rects {
		w += r.Width
	}
	return w
}

// packRows fills rows greedily in sorted order, closing a row as soon as its
// running width reaches budget. A trailing partial row is kept.
func packRows(sorted []Rect, budget int) Plan {
	var rows []Row
	var cur Row
	for _, r := range sorted {
		cur.Indexes = append(cur.Indexes, r.Index)
		cur.Width += r.Width
		cur.Height = max(cur.Height, r.Height)
		if cur.Width >= budget {
			rows = append(rows, cur)
			cur = Row{}
		}
	}
	if len(cur.Indexes) > 0 {
		rows = append(rows, cur)
	}

	plan := Plan{Rows: rows}
	for _, row := range rows {
		plan.Width = max(plan.Width, row.Width)
		plan.Height += row.Height
	}
	return plan
}

// GridSize returns the smallest g with g*g >= n, the side of the square
// grid used for animation frame sheets.
func GridSize(n int) int {
	if n <= 0 {
		return 0
	}
	g := 1
	for g*g < n {
		g++
	}
	return g
}
