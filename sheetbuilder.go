// Package sheetbuilder compiles individually rendered sprite tiles into
// compact sheet images and keys flat render backdrops out of animation
// frames using L*a*b* color distance.
//
// The two pipelines are:
//
//   - BuildSheets: scan a directory of "<name>-view-<angle>.png" tiles,
//     pack each view's tiles into a near-square sheet (Squarify) and write
//     one sheet per angle.
//   - MakeAnimSheet: pull frames from a FrameSource, paste them into a
//     square grid and erase the backdrop (SegmentBackground) before
//     encoding.
package sheetbuilder

// Options configures the sheet pipelines.
type Options struct {
	// Rendered frame size for animation sheets.
	FrameWidth  int
	FrameHeight int
	// Backdrop cutoff as a plain L*a*b* distance, strict less-than.
	Threshold float64
	// Output encoding for view sheets ("png" or "jpg").
	Ext string
	// Integer nearest-neighbour upscale of finished sheets; 1 disables.
	Scale int
	// Backdrop sample override. Nil means the top-left pixel of the
	// composed sheet, unless AutoKey is set.
	Key *Sample
	// Estimate the backdrop by clustering the sheet's border pixels
	// instead of trusting the top-left pixel.
	AutoKey bool
}

func DefaultOptions() Options {
	return Options{
		FrameWidth:  64,
		FrameHeight: 64,
		Threshold:   DefaultThreshold,
		Ext:         "png",
		Scale:       1,
	}
}
