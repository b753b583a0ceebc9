package sheetbuilder

import (
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/setanarut/sheetbuilder/utils"
)

// viewPattern matches tile files named "<name>-view-<angle>.png".
var viewPattern = regexp.MustCompile(`^(.+)-view-(\d+)\.png$`)

// ViewFile is one tile discovered by ScanViews.
type ViewFile struct {
	Name  string // base name with the view suffix stripped
	Path  string // path relative to the scanned filesystem root
	Angle int
}

// ScanViews walks dir for files matching the "<name>-view-<angle>.png"
// convention and groups them by view angle, each group sorted by name.
// Files that don't match the convention are skipped silently.
func ScanViews(fsys fs.FS, dir string) (map[int][]ViewFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	views := make(map[int][]ViewFile)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := viewPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		angle, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("view angle in %s: %w", entry.Name(), err)
		}
		views[angle] = append(views[angle], ViewFile{
			Name:  m[1],
			Path:  path.Join(dir, entry.Name()),
			Angle: angle,
		})
	}

	for _, group := range views {
		slices.SortFunc(group, func(a, b ViewFile) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
	return views, nil
}

// BuildSheets compiles every view found under srcDir into one sheet image
// per angle, written to outDir as "view-<angle>.<ext>". Tiles of a view are
// validated against each other, packed with Squarify and pasted in plan
// order. Decode, validation and encode failures abort the whole run.
func BuildSheets(srcDir, outDir string, opts Options) error {
	views, err := ScanViews(os.DirFS(srcDir), ".")
	if err != nil {
		return err
	}

	angles := make([]int, 0, len(views))
	for angle := range views {
		angles = append(angles, angle)
	}
	slices.Sort(angles)

	for _, angle := range angles {
		group := views[angle]
		tiles := make([]image.Image, len(group))
		rects := make([]Rect, len(group))
		for i, vf := range group {
			img, err := utils.LoadImage(filepath.Join(srcDir, vf.Path))
			if err != nil {
				return fmt.Errorf("view %d: %w", angle, err)
			}
			tiles[i] = img
			rects[i] = Rect{
				Index:  i,
				Width:  img.Bounds().Dx(),
				Height: img.Bounds().Dy(),
			}
		}

		if err := ValidateDimensions(rects); err != nil {
			return fmt.Errorf("view %d: %w", angle, err)
		}

		sheet := Compose(Squarify(rects), tiles)
		if opts.Scale > 1 {
			sheet = Upscale(sheet, opts.Scale)
		}
		out := filepath.Join(outDir, fmt.Sprintf("view-%d.%s", angle, opts.Ext))
		if err := utils.WriteImage(out, sheet); err != nil {
			return fmt.Errorf("view %d: %w", angle, err)
		}
	}
	return nil
}
