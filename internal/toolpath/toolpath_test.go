package toolpath_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolpath-viewer/internal/toolpath"
)

func seg(x0, y0, z0, x1, y1, z1 float64, extruding bool) toolpath.Segment {
	return toolpath.Segment{
		Start:     mgl64.Vec3{x0, y0, z0},
		End:       mgl64.Vec3{x1, y1, z1},
		Extruding: extruding,
	}
}

// chain builds a continuous stream through the given Z heights, one segment per height.
func chain(zs ...float64) []toolpath.Segment {
	var out []toolpath.Segment
	prev := mgl64.Vec3{}
	for i, z := range zs {
		next := mgl64.Vec3{float64(i + 1), 0, z}
		out = append(out, toolpath.Segment{Start: prev, End: next, Extruding: true})
		prev = next
	}
	return out
}

func assertDense(t *testing.T, layers []toolpath.Layer) {
	t.Helper()
	for i, l := range layers {
		assert.Equal(t, i, l.Index)
		assert.NotEmpty(t, l.Segments, "layer %d", i)
	}
}

func TestAggregateByHeight(t *testing.T) {
	tests := []struct {
		name  string
		zs    []float64
		sizes []int
	}{
		{name: "empty", zs: nil, sizes: nil},
		{name: "single layer", zs: []float64{0.2, 0.2, 0.2}, sizes: []int{3}},
		{name: "rise starts layer", zs: []float64{0, 0.2}, sizes: []int{1, 1}},
		{name: "noise ignored", zs: []float64{0.2, 0.20000001, 0.2}, sizes: []int{3}},
		{name: "three layers", zs: []float64{0.2, 0.2, 0.4, 0.4, 0.6}, sizes: []int{2, 2, 1}},
		{name: "descent lowers reference", zs: []float64{15, 0.2, 0.2, 0.4}, sizes: []int{3, 1}},
		{name: "descent within layer", zs: []float64{0.4, 0.2, 0.3}, sizes: []int{2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layers := toolpath.AggregateByHeight(chain(tt.zs...))
			require.Len(t, layers, len(tt.sizes))
			assertDense(t, layers)
			for i, n := range tt.sizes {
				assert.Len(t, layers[i].Segments, n, "layer %d", i)
			}
		})
	}
}

func TestAggregateMarkersTakePrecedence(t *testing.T) {
	segs := chain(0.2, 0.4, 0.6, 0.6, 0.6)

	// Markers at 0 and duplicates never yield empty layers; Z rises are ignored.
	layers := toolpath.Aggregate(segs, []int{0, 0, 3, 3, 5})
	require.Len(t, layers, 2)
	assertDense(t, layers)
	assert.Len(t, layers[0].Segments, 3)
	assert.Len(t, layers[1].Segments, 2)

	// Without markers, Z decides.
	assert.Len(t, toolpath.Aggregate(segs, nil), 3)
}

func TestAggregatePreservesOrder(t *testing.T) {
	segs := chain(0.2, 0.2, 0.4, 0.4)
	layers := toolpath.Aggregate(segs, nil)

	var flat []toolpath.Segment
	for _, l := range layers {
		flat = append(flat, l.Segments...)
	}
	assert.Equal(t, segs, flat)

	// Layers own their storage.
	segs[0].Extruding = false
	assert.True(t, layers[0].Segments[0].Extruding)
}

func TestComputeBoundsEmpty(t *testing.T) {
	b := toolpath.ComputeBounds(nil)
	assert.True(t, b.Box.IsEmpty())
	assert.Zero(t, b.EstimatedHeight)
	assert.Zero(t, b.CommandCount)
}

func TestComputeBounds(t *testing.T) {
	segs := []toolpath.Segment{
		seg(0, 0, 0.2, 10, 0, 0.2, true),
		seg(10, 0, 0.2, 10, 5, 1.2, false),
		seg(10, 5, 1.2, -3, 5, 1.2, true),
	}
	b := toolpath.ComputeBounds(segs)

	assert.Equal(t, mgl64.Vec3{-3, 0, 0.2}, b.Box.Min)
	assert.Equal(t, mgl64.Vec3{10, 5, 1.2}, b.Box.Max)
	assert.InDelta(t, 1.0, b.EstimatedHeight, 1e-12)
	assert.Equal(t, 3, b.CommandCount)
	for _, s := range segs {
		assert.True(t, b.Box.Contains(s.Start))
		assert.True(t, b.Box.Contains(s.End))
	}
}

func TestSegmentBoundsPadding(t *testing.T) {
	box := toolpath.SegmentBounds([]toolpath.Segment{seg(0, 0, 0, 10, 0, 0, true)}, 1)
	assert.Equal(t, mgl64.Vec3{-1, -1, -1}, box.Min)
	assert.Equal(t, mgl64.Vec3{11, 1, 1}, box.Max)

	assert.True(t, toolpath.SegmentBounds(nil, 1).IsEmpty())
}

func TestModelAccessors(t *testing.T) {
	var empty toolpath.Model
	assert.Equal(t, -1, empty.MaxLayerIndex())
	assert.Empty(t, empty.Segments())

	segs := chain(0.2, 0.4, 0.6)
	m := toolpath.Model{Layers: toolpath.Aggregate(segs, nil)}
	assert.Equal(t, 3, m.LayerCount())
	assert.Equal(t, 2, m.MaxLayerIndex())
	assert.Equal(t, segs, m.Segments())
	assert.Equal(t, segs[:2], m.SegmentsUpTo(1))
	assert.Empty(t, m.SegmentsUpTo(-1))
	assert.InDelta(t, math.Sqrt(1.04), segs[0].Length(), 1e-12)
	assert.Equal(t, mgl64.Vec3{0.5, 0, 0.1}, segs[0].Midpoint())
}
