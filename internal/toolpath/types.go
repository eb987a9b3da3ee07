// Package toolpath holds the parsed toolpath model: chronological motion segments grouped
// into dense, index-ordered layers, plus the bounds computed over them.
package toolpath

import (
	"github.com/go-gl/mathgl/mgl64"

	"toolpath-viewer/internal/mathutil"
)

// Segment is one linear move, in millimeters.
type Segment struct {
	Start     mgl64.Vec3
	End       mgl64.Vec3
	Extruding bool
}

// Length returns the distance between Start and End.
func (s Segment) Length() float64 {
	return s.End.Sub(s.Start).Len()
}

// Midpoint returns the center of the segment.
func (s Segment) Midpoint() mgl64.Vec3 {
	return s.Start.Add(s.End).Mul(0.5)
}

// Layer is a contiguous run of segments sharing a height band.
// Index is dense and zero-based; it is not the slicer's own layer number.
type Layer struct {
	Index    int
	Segments []Segment
}

// Model is the immutable result of interpreting one command file.
type Model struct {
	Layers          []Layer
	Bounds          mathutil.Box3
	EstimatedHeight float64
	Metadata        map[string]string
	TotalCommands   int

	// Skipped counts command codes that were recognized as words but not interpreted
	// (arcs, temperatures, fans, ...), keyed by code ("G2", "M104").
	Skipped map[string]int
}

// LayerCount returns the number of layers.
func (m *Model) LayerCount() int {
	return len(m.Layers)
}

// MaxLayerIndex returns the index of the last layer, or -1 when there are none.
func (m *Model) MaxLayerIndex() int {
	if len(m.Layers) == 0 {
		return -1
	}
	return m.Layers[len(m.Layers)-1].Index
}

// Segments returns all segments in chronological order as a new slice.
func (m *Model) Segments() []Segment {
	n := 0
	for _, l := range m.Layers {
		n += len(l.Segments)
	}
	out := make([]Segment, 0, n)
	for _, l := range m.Layers {
		out = append(out, l.Segments...)
	}
	return out
}

// SegmentsUpTo returns the segments of every layer with index <= maxLayer, in order.
func (m *Model) SegmentsUpTo(maxLayer int) []Segment {
	var out []Segment
	for _, l := range m.Layers {
		if l.Index > maxLayer {
			break
		}
		out = append(out, l.Segments...)
	}
	return out
}
