package camera

import "github.com/go-gl/mathgl/mgl64"

// Projector maps world points onto a square pixel grid.
type Projector struct {
	view mgl64.Mat4
	proj mgl64.Mat4
	half float64
}

// NewProjector builds a projector for a size×size target.
func NewProjector(f Framing, fovY float64, size int) Projector {
	return Projector{
		view: f.View(),
		proj: f.Projection(fovY, 1),
		half: float64(size) / 2,
	}
}

// Project returns the pixel position of v and its view-space depth (larger is closer).
// ok is false for points behind the camera.
func (p Projector) Project(v mgl64.Vec3) (x, y, depth float64, ok bool) {
	eye := p.view.Mul4x1(v.Vec4(1))
	clip := p.proj.Mul4x1(eye)
	if clip[3] <= 1e-9 {
		return 0, 0, 0, false
	}
	nx := clip[0] / clip[3]
	ny := clip[1] / clip[3]
	return (nx + 1) * p.half, (1 - ny) * p.half, eye[2], true
}
