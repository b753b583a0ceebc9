package sheetbuilder

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/sheetbuilder/utils"
)

func TestScanViews_Grouping(t *testing.T) {
	fsys := fstest.MapFS{
		"a-view-0.png":   {},
		"a-view-180.png": {},
		"b-view-0.png":   {},
		"b-view-90.png":  {},
		"b-view-180.png": {},
		"b-view-270.png": {},
		"cover.png":      {},
		"notes.txt":      {},
	}

	views, err := ScanViews(fsys, ".")
	require.NoError(t, err)

	want := map[int][]ViewFile{
		0: {
			{Name: "a", Path: "a-view-0.png", Angle: 0},
			{Name: "b", Path: "b-view-0.png", Angle: 0},
		},
		90: {
			{Name: "b", Path: "b-view-90.png", Angle: 90},
		},
		180: {
			{Name: "a", Path: "a-view-180.png", Angle: 180},
			{Name: "b", Path: "b-view-180.png", Angle: 180},
		},
		270: {
			{Name: "b", Path: "b-view-270.png", Angle: 270},
		},
	}
	if diff := cmp.Diff(want, views); diff != "" {
		t.Errorf("views mismatch (-want +got):\n%s", diff)
	}
}

func TestScanViews_SortedByName(t *testing.T) {
	fsys := fstest.MapFS{
		"zeta-view-45.png":  {},
		"alpha-view-45.png": {},
		"mid-view-45.png":   {},
	}
	views, err := ScanViews(fsys, ".")
	require.NoError(t, err)
	require.Len(t, views[45], 3)
	assert.Equal(t, "alpha", views[45][0].Name)
	assert.Equal(t, "mid", views[45][1].Name)
	assert.Equal(t, "zeta", views[45][2].Name)
}

func TestScanViews_MissingDir(t *testing.T) {
	_, err := ScanViews(fstest.MapFS{}, "nope")
	require.Error(t, err)
}

func writeTile(t *testing.T, dir, name string, w, h int, c color.NRGBA) {
	t.Helper()
	require.NoError(t, utils.WriteImage(filepath.Join(dir, name), solidNRGBA(w, h, c)))
}

// Six tiles across four views compile into four sheets; the single-tile
// views come out tile-sized, the two-tile views stack vertically.
func TestBuildSheets(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	opaque := color.NRGBA{120, 40, 200, 255}
	writeTile(t, srcDir, "a-view-0.png", 64, 64, opaque)
	writeTile(t, srcDir, "a-view-180.png", 64, 64, opaque)
	writeTile(t, srcDir, "b-view-0.png", 64, 64, opaque)
	writeTile(t, srcDir, "b-view-90.png", 32, 64, opaque)
	writeTile(t, srcDir, "b-view-180.png", 64, 64, opaque)
	writeTile(t, srcDir, "b-view-270.png", 32, 64, opaque)

	require.NoError(t, BuildSheets(srcDir, outDir, DefaultOptions()))

	wantSizes := map[string][2]int{
		"view-0.png":   {64, 128},
		"view-90.png":  {32, 64},
		"view-180.png": {64, 128},
		"view-270.png": {32, 64},
	}
	for name, size := range wantSizes {
		img, err := utils.LoadImage(filepath.Join(outDir, name))
		require.NoErrorf(t, err, "sheet %s", name)
		assert.Equalf(t, size[0], img.Bounds().Dx(), "%s width", name)
		assert.Equalf(t, size[1], img.Bounds().Dy(), "%s height", name)
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestBuildSheets_Scale(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	writeTile(t, srcDir, "a-view-0.png", 16, 16, color.NRGBA{255, 0, 0, 255})

	opts := DefaultOptions()
	opts.Scale = 4
	require.NoError(t, BuildSheets(srcDir, outDir, opts))

	img, err := utils.LoadImage(filepath.Join(outDir, "view-0.png"))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
}

func TestBuildSheets_IncompatibleTiles(t *testing.T) {
	srcDir := t.TempDir()
	writeTile(t, srcDir, "a-view-0.png", 64, 64, color.NRGBA{A: 255})
	writeTile(t, srcDir, "b-view-0.png", 48, 64, color.NRGBA{A: 255})

	err := BuildSheets(srcDir, t.TempDir(), DefaultOptions())
	require.Error(t, err)

	var dimErr *IncompatibleDimensionsError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 48, dimErr.MinWidth)
	assert.Contains(t, err.Error(), "view 0")
}
