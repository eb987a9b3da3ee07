package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CylinderSides is the number of radial segments used for every toolpath tube.
const CylinderSides = 10

// Mesh is an indexed triangle mesh in model space.
type Mesh struct {
	Verts []mgl64.Vec3
	Tris  [][3]int
}

// UnitCylinder builds a capped cylinder of radius 1 and height 1 along +Y, centered
// on the origin. This is the primitive geometry.Instance transforms expect.
func UnitCylinder(sides int) Mesh {
	sides = max(sides, 3)
	m := Mesh{
		Verts: make([]mgl64.Vec3, 0, 2*sides+2),
		Tris:  make([][3]int, 0, 4*sides),
	}
	for _, y := range []float64{-0.5, 0.5} {
		for i := 0; i < sides; i++ {
			a := 2 * math.Pi * float64(i) / float64(sides)
			m.Verts = append(m.Verts, mgl64.Vec3{math.Cos(a), y, math.Sin(a)})
		}
	}
	bottom, top := 2*sides, 2*sides+1
	m.Verts = append(m.Verts, mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{0, 0.5, 0})

	for i := 0; i < sides; i++ {
		j := (i + 1) % sides
		bi, bj, ti, tj := i, j, sides+i, sides+j
		m.Tris = append(m.Tris,
			[3]int{bi, bj, ti},
			[3]int{ti, bj, tj},
			[3]int{bottom, bj, bi},
			[3]int{top, ti, tj},
		)
	}
	return m
}
