package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box3 is an axis-aligned bounding volume.
// The zero value is a degenerate box at the origin, not an empty one; use EmptyBox.
type Box3 struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyBox returns the empty sentinel: Min at +Inf, Max at -Inf, so the first
// ExpandByPoint collapses it onto that point.
func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box encloses no point.
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint returns the smallest box enclosing b and p.
func (b Box3) ExpandByPoint(p mgl64.Vec3) Box3 {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
	return b
}

// ExpandByScalar grows every face outward by s. Empty boxes stay empty.
func (b Box3) ExpandByScalar(s float64) Box3 {
	if b.IsEmpty() {
		return b
	}
	d := mgl64.Vec3{s, s, s}
	return Box3{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box enclosing both boxes.
func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Size returns the extent along each axis, zero for an empty box.
func (b Box3) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint, the origin for an empty box.
func (b Box3) Center() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains reports whether p lies inside or on the box.
func (b Box3) Contains(p mgl64.Vec3) bool {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] || p[k] > b.Max[k] {
			return false
		}
	}
	return true
}
