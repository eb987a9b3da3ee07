package batch

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"toolpath-viewer/internal/geometry"
	"toolpath-viewer/internal/postprocess"
	"toolpath-viewer/internal/raster"
	"toolpath-viewer/internal/viewer"
)

// ErrNothingVisible is returned when the selected layers contain nothing to draw.
var ErrNothingVisible = errors.New("batch: nothing visible")

// Options control how one toolpath becomes an image.
type Options struct {
	Display     geometry.DisplayConfig
	Layer       int // highest layer drawn; negative draws every layer
	Size        int
	Supersample int
	Background  *image.NRGBA
	Trim        bool
	TrimFill    float64

	Metrics *Metrics
	Logger  *slog.Logger
}

// Render interprets text and draws it the way the interactive viewer first shows a
// newly opened file: selected layers, camera auto-fitted to the visible bounds.
func Render(name, text string, opts Options) (*image.NRGBA, viewer.Details, error) {
	r := raster.NewRenderer()
	r.SetBackground(opts.Background)
	s := viewer.NewSession(r, viewer.WithDisplayConfig(opts.Display), viewer.WithLogger(opts.Logger))
	defer s.Close()

	start := time.Now()
	if err := s.Load(name, text); err != nil {
		return nil, viewer.Details{}, err
	}
	opts.Metrics.observeParse(time.Since(start))

	if opts.Layer >= 0 {
		if _, err := s.SetLayer(opts.Layer); err != nil {
			return nil, viewer.Details{}, err
		}
	}
	details, err := s.Details()
	if err != nil {
		return nil, viewer.Details{}, err
	}

	start = time.Now()
	framing, fitted, err := s.Refresh()
	if err != nil {
		return nil, details, err
	}
	if !fitted {
		return nil, details, ErrNothingVisible
	}

	ss := max(opts.Supersample, 1)
	img, err := r.Render(framing, opts.Size, ss)
	if err != nil {
		return nil, details, err
	}
	img = postprocess.Downsample(img, ss)
	if opts.Trim {
		img = postprocess.Trim(img, opts.Size, opts.TrimFill)
	}
	opts.Metrics.observeRender(time.Since(start))
	return img, details, nil
}

// Encode writes img as "webp" (lossless) or "png".
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "webp":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("batch: webp encode: %w", err)
		}
	case "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("batch: png encode: %w", err)
		}
	default:
		return fmt.Errorf("batch: unknown format %q", format)
	}
	return nil
}

// WriteImage encodes img to path, creating parent directories.
func WriteImage(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("batch: create %s: %w", path, err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
