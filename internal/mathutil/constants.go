package mathutil

import "github.com/go-gl/mathgl/mgl64"

var (
	// UpAxis is the canonical axis of a unit segment primitive (+Y).
	UpAxis = mgl64.Vec3{0, 1, 0}

	// ZUp is the build-plate normal used as camera up vector.
	ZUp = mgl64.Vec3{0, 0, 1}
)

// ParallelEpsilon is the threshold on 1+cos(theta) under which two unit vectors are
// treated as antiparallel.
const ParallelEpsilon = 1e-9

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
