package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Trim crops img to its non-transparent pixels and centers the crop on a size×size
// transparent canvas, scaled so its longer side spans fill×size. Fully transparent
// images come back as an empty canvas.
func Trim(img *image.NRGBA, size int, fill float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	crop, ok := opaqueBounds(img)
	if !ok {
		return canvas
	}

	w, h := crop.Dx(), crop.Dy()
	scale := fill * float64(size) / float64(max(w, h))
	newW := max(int(float64(w)*scale+0.5), 1)
	newH := max(int(float64(h)*scale+0.5), 1)

	offX := (size - newW) / 2
	offY := (size - newH) / 2
	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(canvas, dst, img, crop, draw.Src, nil)
	return canvas
}

// opaqueBounds returns the smallest rectangle holding every pixel with alpha > 0.
func opaqueBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
