package mathutil_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"toolpath-viewer/internal/mathutil"
)

func TestEmptyBox(t *testing.T) {
	b := mathutil.EmptyBox()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, mgl64.Vec3{}, b.Size())
	assert.Equal(t, mgl64.Vec3{}, b.Center())
	assert.True(t, b.ExpandByScalar(5).IsEmpty())

	var zero mathutil.Box3
	assert.False(t, zero.IsEmpty(), "zero value is a point box")
}

func TestBoxExpand(t *testing.T) {
	b := mathutil.EmptyBox().
		ExpandByPoint(mgl64.Vec3{0, 0, 0}).
		ExpandByPoint(mgl64.Vec3{10, -2, 3})

	assert.False(t, b.IsEmpty())
	assert.Equal(t, mgl64.Vec3{0, -2, 0}, b.Min)
	assert.Equal(t, mgl64.Vec3{10, 0, 3}, b.Max)
	assert.Equal(t, mgl64.Vec3{10, 2, 3}, b.Size())
	assert.Equal(t, mgl64.Vec3{5, -1, 1.5}, b.Center())
	assert.True(t, b.Contains(mgl64.Vec3{5, -1, 1}))
	assert.False(t, b.Contains(mgl64.Vec3{11, 0, 0}))

	padded := b.ExpandByScalar(1)
	assert.Equal(t, mgl64.Vec3{-1, -3, -1}, padded.Min)
	assert.Equal(t, mgl64.Vec3{11, 1, 4}, padded.Max)
}

func TestBoxUnion(t *testing.T) {
	a := mathutil.EmptyBox().ExpandByPoint(mgl64.Vec3{0, 0, 0})
	b := mathutil.EmptyBox().ExpandByPoint(mgl64.Vec3{1, 2, 3})

	u := a.Union(b)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, u.Min)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, u.Max)

	assert.Equal(t, a, a.Union(mathutil.EmptyBox()))
	assert.Equal(t, b, mathutil.EmptyBox().Union(b))
}

func TestShortestArc(t *testing.T) {
	dirs := []mgl64.Vec3{
		{1, 0, 0},
		{0, 0, 1},
		{0, 1, 0},
		{0, -1, 0},
		mgl64.Vec3{1, 1, 1}.Normalize(),
		mgl64.Vec3{-3, 0.5, 2}.Normalize(),
		mgl64.Vec3{1e-7, -1, 0}.Normalize(),
	}
	for _, d := range dirs {
		q := mathutil.ShortestArc(mathutil.UpAxis, d)
		assert.InDelta(t, 1.0, q.Len(), 1e-9, "dir %v", d)

		got := q.Rotate(mathutil.UpAxis)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, d[k], got[k], 1e-9, "dir %v axis %d", d, k)
		}
	}
}

func TestShortestArcIdentity(t *testing.T) {
	q := mathutil.ShortestArc(mathutil.UpAxis, mathutil.UpAxis)
	assert.InDelta(t, 1.0, q.W, 1e-12)
	assert.InDelta(t, 0.0, q.V.Len(), 1e-12)
}

func TestCompose(t *testing.T) {
	q := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	m := mathutil.Compose(mgl64.Vec3{1, 2, 3}, q, mgl64.Vec3{2, 4, 2})

	// +Y scaled by 4, rotated a quarter turn about Z onto -X, then translated.
	p := mgl64.TransformCoordinate(mgl64.Vec3{0, 1, 0}, m)
	assert.InDelta(t, -3.0, p[0], 1e-9)
	assert.InDelta(t, 2.0, p[1], 1e-9)
	assert.InDelta(t, 3.0, p[2], 1e-9)

	id := mathutil.Compose(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	assert.True(t, id.ApproxEqualThreshold(mgl64.Ident4(), 1e-12))
	assert.False(t, m.ApproxEqualThreshold(mgl64.Ident4(), 1e-12))
}
