package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShortestArc returns the unit quaternion rotating unit vector from onto unit vector to
// along the shortest arc. Both inputs must already be normalized.
//
// Antiparallel inputs have no unique axis; any axis perpendicular to from is used,
// giving a half-turn.
func ShortestArc(from, to mgl64.Vec3) mgl64.Quat {
	r := from.Dot(to) + 1

	var q mgl64.Quat
	if r < ParallelEpsilon {
		if math.Abs(from[0]) > math.Abs(from[2]) {
			q = mgl64.Quat{W: 0, V: mgl64.Vec3{-from[1], from[0], 0}}
		} else {
			q = mgl64.Quat{W: 0, V: mgl64.Vec3{0, -from[2], from[1]}}
		}
	} else {
		q = mgl64.Quat{W: r, V: from.Cross(to)}
	}
	return q.Normalize()
}
