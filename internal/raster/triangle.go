package raster

import (
	"image/color"
	"math"
)

// Vertex is a projected point: pixel coordinates plus view-space depth.
type Vertex struct {
	X, Y, Z float64
}

// RasterizeTriangle fills a triangle with an already lit color, testing and writing
// the z-buffer.
//
// This is the hot path; the pixel loop does not allocate.
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, c color.NRGBA) {
	rasterize(fb, v, c, 1, true)
}

// RasterizeTriangleBlend composites a triangle over the buffer at the given opacity.
// It tests the z-buffer so opaque geometry in front hides it, but never writes depth,
// letting translucent layers accumulate.
func RasterizeTriangleBlend(fb *FrameBuffer, v [3]Vertex, c color.NRGBA, opacity float64) {
	if opacity <= 0 {
		return
	}
	rasterize(fb, v, c, math.Min(opacity, 1), false)
}

func rasterize(fb *FrameBuffer, v [3]Vertex, c color.NRGBA, opacity float64, writeZ bool) {
	x0, y0, z0 := v[0].X, v[0].Y, v[0].Z
	x1, y1, z1 := v[1].X, v[1].Y, v[1].Z
	x2, y2, z2 := v[2].X, v[2].Y, v[2].Z

	// Bounding box
	minX := max(int(math.Floor(min(x0, x1, x2))), 0)
	maxX := min(int(math.Ceil(max(x0, x1, x2))), fb.Width-1)
	minY := max(int(math.Floor(min(y0, y1, y2))), 0)
	maxY := min(int(math.Ceil(max(y0, y1, y2))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	srcA := float64(c.A) / 255 * opacity

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			pxIdx := zIdx * 4
			if writeZ {
				fb.ZBuf[zIdx] = z
				fb.Color[pxIdx] = c.R
				fb.Color[pxIdx+1] = c.G
				fb.Color[pxIdx+2] = c.B
				fb.Color[pxIdx+3] = c.A
				continue
			}
			blendOver(fb.Color[pxIdx:pxIdx+4], c, srcA)
		}
	}
}

// blendOver composites c with alpha a over the non-premultiplied pixel dst.
func blendOver(dst []uint8, c color.NRGBA, a float64) {
	dstA := float64(dst[3]) / 255
	outA := a + dstA*(1-a)
	if outA <= 0 {
		return
	}
	mix := func(s, d uint8) uint8 {
		return clamp255((float64(s)*a + float64(d)*dstA*(1-a)) / outA)
	}
	dst[0] = mix(c.R, dst[0])
	dst[1] = mix(c.G, dst[1])
	dst[2] = mix(c.B, dst[2])
	dst[3] = clamp255(outA * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
