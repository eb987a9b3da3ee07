package toolpath

// LayerThreshold is the minimum Z rise, in millimeters, that starts a new layer.
// Smaller changes are floating-point noise.
const LayerThreshold = 1e-4

// Aggregate partitions a chronological segment stream into layers.
//
// markers holds the segment positions at which explicit layer-change markers were seen
// (the number of segments emitted before each marker). When at least one marker exists,
// boundaries come only from markers; otherwise they come only from Z (see
// AggregateByHeight). The two signals are never mixed.
func Aggregate(segments []Segment, markers []int) []Layer {
	if len(markers) == 0 {
		return AggregateByHeight(segments)
	}
	return aggregateByMarkers(segments, markers)
}

// AggregateByHeight starts a new layer at every segment whose end Z rises more than
// LayerThreshold above the current layer's reference height. A segment ending below the
// reference lowers it, so a lift followed by a descent does not hide later layers.
func AggregateByHeight(segments []Segment) []Layer {
	var layers []Layer
	start := 0
	ref := 0.0
	for i, s := range segments {
		z := s.End[2]
		switch {
		case i == start:
			ref = z
		case z > ref+LayerThreshold:
			layers = appendLayer(layers, segments[start:i])
			start = i
			ref = z
		case z < ref:
			ref = z
		}
	}
	return appendLayer(layers, segments[start:])
}

func aggregateByMarkers(segments []Segment, markers []int) []Layer {
	var layers []Layer
	start := 0
	for _, m := range markers {
		if m <= start || m > len(segments) {
			continue
		}
		layers = appendLayer(layers, segments[start:m])
		start = m
	}
	return appendLayer(layers, segments[start:])
}

// appendLayer adds run as the next dense layer. Empty runs are dropped.
func appendLayer(layers []Layer, run []Segment) []Layer {
	if len(run) == 0 {
		return layers
	}
	segs := make([]Segment, len(run))
	copy(segs, run)
	return append(layers, Layer{Index: len(layers), Segments: segs})
}
