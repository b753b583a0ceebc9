package sheetbuilder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"

	_ "image/png"

	"github.com/nfnt/resize"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/setanarut/sheetbuilder/utils"
)

// FrameSource produces the rendered animation frames for one sheet, in
// frame order, at the requested resolution. The rendering host behind it
// owns all of its own failure modes; errors are passed through untouched.
type FrameSource interface {
	Frames(ctx context.Context, width, height int) ([]image.Image, error)
}

// VideoSource renders frames by sampling a video file through ffmpeg at a
// fixed rate.
type VideoSource struct {
	Path string
	// Sampling rate in frames per second; 12 when unset.
	FPS int
}

func (s *VideoSource) Frames(ctx context.Context, width, height int) ([]image.Image, error) {
	fps := s.FPS
	if fps <= 0 {
		fps = 12
	}

	// Closing the reader on every exit path unblocks the producer
	// goroutine's pending write, so a decode failure cannot strand ffmpeg.
	pr, pw := io.Pipe()
	defer pr.Close()

	cmd := ffmpeg.Input(s.Path).
		Output("pipe:1", ffmpeg.KwArgs{
			"format": "image2pipe",
			"vcodec": "png",
			"r":      strconv.Itoa(fps),
		}).
		WithOutput(pw).
		WithErrorOutput(os.Stderr)
	cmd.Context = ctx

	done := make(chan error, 1)
	go func() {
		err := cmd.Run()
		pw.CloseWithError(err)
		done <- err
	}()

	frames, err := decodeFrameStream(pr, width, height)
	if err != nil {
		return nil, err
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("ffmpeg %s: %w", s.Path, err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", s.Path)
	}
	return frames, nil
}

// decodeFrameStream reads a stream of concatenated PNG frames, the format
// ffmpeg's image2pipe muxer emits, until the stream drains. Frames that
// don't already match the requested size are resized with nearest-neighbour
// sampling.
func decodeFrameStream(r io.Reader, width, height int) ([]image.Image, error) {
	reader := bufio.NewReader(r)
	var frames []image.Image
	for {
		if _, err := reader.Peek(8); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read frame stream: %w", err)
		}
		img, _, err := image.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", len(frames), err)
		}
		if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
			img = resize.Resize(uint(width), uint(height), img, resize.NearestNeighbor)
		}
		frames = append(frames, img)
	}
	return frames, nil
}

// MakeAnimSheet pulls every frame from src, pastes them into the smallest
// square grid that holds them, erases the backdrop and writes the sheet to
// outPath. The backdrop sample comes from opts.Key, or border clustering
// when opts.AutoKey is set, or the sheet's top-left pixel.
func MakeAnimSheet(ctx context.Context, src FrameSource, opts Options, outPath string) error {
	frames, err := src.Frames(ctx, opts.FrameWidth, opts.FrameHeight)
	if err != nil {
		return fmt.Errorf("render frames: %w", err)
	}
	// Not every source guards this itself, and an empty grid has no
	// top-left backdrop pixel to key against.
	if len(frames) == 0 {
		return fmt.Errorf("frame source produced no frames")
	}

	sheet := ComposeGrid(frames, opts.FrameWidth, opts.FrameHeight)

	key := opts.Key
	if key == nil && opts.AutoKey {
		sample := SampleFromColor(utils.EstimateBackground(sheet))
		key = &sample
	}
	KeyOut(sheet, key, opts.Threshold)

	out := sheet
	if opts.Scale > 1 {
		out = Upscale(sheet, opts.Scale)
	}
	return utils.WriteImage(outPath, out)
}
