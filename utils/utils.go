// Package utils holds image IO helpers and backdrop color estimation shared
// by the sheetbuilder pipelines and example programs.
package utils

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "image/gif"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// LoadImage decodes a single image file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// WriteImage encodes img to path, choosing the codec from the file
// extension (.png, .jpg, .jpeg).
func WriteImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	default:
		err = fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
	return err
}

// EstimateBackground guesses the backdrop color of a rendered frame by
// clustering the pixels along the image border; the backdrop is assumed to
// be the most populous border cluster. Falls back to the dominant color of
// the whole image when the border carries too few opaque pixels or the
// clustering fails.
func EstimateBackground(img image.Image) colorful.Color {
	b := img.Bounds()
	dataset := make(clusters.Observations, 0, 2*(b.Dx()+b.Dy()))
	add := func(x, y int) {
		r16, g16, b16, a16 := img.At(x, y).RGBA()
		if a16 == 0 {
			return
		}
		dataset = append(dataset, clusters.Coordinates{
			float64(r16) / 65535.0,
			float64(g16) / 65535.0,
			float64(b16) / 65535.0,
		})
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		add(x, b.Min.Y)
		add(x, b.Max.Y-1)
	}
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		add(b.Min.X, y)
		add(b.Max.X-1, y)
	}

	if len(dataset) >= 3 {
		km := kmeans.New()
		cc, err := km.Partition(dataset, 3)
		if err == nil && len(cc) > 0 {
			slices.SortFunc(cc, func(a, b clusters.Cluster) int {
				return len(b.Observations) - len(a.Observations)
			})
			if center := cc[0].Center; len(center) >= 3 {
				return colorful.Color{R: center[0], G: center[1], B: center[2]}.Clamped()
			}
		}
	}

	col, _ := colorful.MakeColor(dominantcolor.Find(img))
	return col.Clamped()
}
