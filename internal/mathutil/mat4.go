package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Compose builds the affine matrix T·R·S from a translation, a rotation and a
// per-axis scale.
func Compose(t mgl64.Vec3, r mgl64.Quat, s mgl64.Vec3) mgl64.Mat4 {
	m := r.Mat4()
	for c := 0; c < 3; c++ {
		for row := 0; row < 3; row++ {
			m[c*4+row] *= s[c]
		}
	}
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}
