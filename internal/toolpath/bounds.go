package toolpath

import "toolpath-viewer/internal/mathutil"

// Bounds summarizes the spatial extent of a segment stream.
type Bounds struct {
	Box             mathutil.Box3
	EstimatedHeight float64
	CommandCount    int
}

// ComputeBounds makes one pass over segments. Box is the empty sentinel when there are
// no segments; callers must check Box.IsEmpty before deriving size or center.
// Every interpreted motion command emits exactly one segment, so CommandCount is the
// number of motion commands.
func ComputeBounds(segments []Segment) Bounds {
	box := SegmentBounds(segments, 0)
	b := Bounds{Box: box, CommandCount: len(segments)}
	if !box.IsEmpty() {
		b.EstimatedHeight = box.Max[2] - box.Min[2]
	}
	return b
}

// SegmentBounds returns the box enclosing every endpoint, grown by padding on each side
// when padding > 0.
func SegmentBounds(segments []Segment, padding float64) mathutil.Box3 {
	box := mathutil.EmptyBox()
	for _, s := range segments {
		box = box.ExpandByPoint(s.Start).ExpandByPoint(s.End)
	}
	if padding > 0 {
		box = box.ExpandByScalar(padding)
	}
	return box
}
