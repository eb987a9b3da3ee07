// Package camera frames a bounding volume and projects world points for the preview
// renderer.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"toolpath-viewer/internal/mathutil"
)

const (
	// DistanceFactor scales the largest box dimension into a viewing distance.
	DistanceFactor = 1.5
	// MinSize floors the largest box dimension so tiny or empty boxes still frame.
	MinSize = 1.0

	minNear = 0.1
	minFar  = 2000.0

	// DefaultFOV is the vertical field of view of the preview camera, in degrees.
	DefaultFOV = 45.0
)

// Framing is a camera placement looking at Target from Position.
type Framing struct {
	Target   mgl64.Vec3
	Position mgl64.Vec3
	Distance float64
	Near     float64
	Far      float64
}

// Frame places the camera on the (+1,+1,+1) diagonal of the box center, far enough to
// see the whole box. It is pure; an empty box frames the origin.
func Frame(box mathutil.Box3) Framing {
	size := box.Size()
	center := box.Center()
	maxSize := math.Max(math.Max(size[0], size[1]), math.Max(size[2], MinSize))

	d := maxSize * DistanceFactor
	return Framing{
		Target:   center,
		Position: center.Add(mgl64.Vec3{d, d, d}),
		Distance: d,
		Near:     math.Max(d/200, minNear),
		Far:      math.Max(d*20, minFar),
	}
}

// View returns the world-to-camera matrix with +Z as up.
func (f Framing) View() mgl64.Mat4 {
	return mgl64.LookAtV(f.Position, f.Target, mathutil.ZUp)
}

// Projection returns a perspective matrix using the framing's clip planes.
// fovY is in degrees.
func (f Framing) Projection(fovY, aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(fovY), aspect, f.Near, f.Far)
}
