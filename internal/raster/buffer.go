package raster

import (
	"image"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // NRGBA interleaved, len = W*H*4
	ZBuf   []float64 // view-space depth per pixel (larger is closer), initialized to -inf
}

// NewFrameBuffer allocates a transparent color buffer and -inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   zbuf,
	}
}

// Fill copies bg into the color buffer. bg must match the buffer size; any other
// size is ignored.
func (fb *FrameBuffer) Fill(bg *image.NRGBA) {
	b := bg.Bounds()
	if b.Dx() != fb.Width || b.Dy() != fb.Height {
		return
	}
	row := fb.Width * 4
	for y := 0; y < fb.Height; y++ {
		off := bg.PixOffset(b.Min.X, b.Min.Y+y)
		copy(fb.Color[y*row:(y+1)*row], bg.Pix[off:off+row])
	}
}

// Image copies the color buffer into a new image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
