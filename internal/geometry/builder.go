// Package geometry derives per-segment instance transforms and visible bounds from a
// parsed toolpath model. Every call allocates fresh results; the model is never touched.
package geometry

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"toolpath-viewer/internal/mathutil"
	"toolpath-viewer/internal/toolpath"
)

// DegenerateLength is the segment length under which no direction can be derived.
const DegenerateLength = 1e-9

// Instance places the canonical primitive (a unit-radius, unit-length cylinder along +Y,
// centered on the origin) onto one segment.
type Instance struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
}

// Matrix returns the affine transform T·R·S.
func (in Instance) Matrix() mgl64.Mat4 {
	return mathutil.Compose(in.Translation, in.Rotation, in.Scale)
}

// Result is the renderable subset of a model. ExtrudingInstances[i] belongs to
// Extruding[i] and TravelInstances[i] to Travel[i].
type Result struct {
	Extruding          []toolpath.Segment
	Travel             []toolpath.Segment
	ExtrudingInstances []Instance
	TravelInstances    []Instance
	VisibleBounds      mathutil.Box3

	ExtrusionColor  color.NRGBA
	TravelColor     color.NRGBA
	TravelOpacity   float64
	ExtrusionRadius float64
	TravelRadius    float64
}

// Empty reports whether nothing is visible.
func (r Result) Empty() bool {
	return len(r.Extruding) == 0 && len(r.Travel) == 0
}

// InstanceCount returns the total number of instances in both categories.
func (r Result) InstanceCount() int {
	return len(r.ExtrudingInstances) + len(r.TravelInstances)
}

// Build selects the segments of layers up to maxLayer, splits them into extruding and
// travel sets and derives one instance per segment. Travel segments are dropped when
// cfg.TravelVisible is false and then take no part in VisibleBounds either.
// Build never fails; a nil model or negative maxLayer yields an empty result.
func Build(model *toolpath.Model, maxLayer int, cfg DisplayConfig) Result {
	res := Result{
		VisibleBounds:   mathutil.EmptyBox(),
		ExtrusionColor:  cfg.BaseColor,
		TravelColor:     cfg.TravelColor(),
		TravelOpacity:   DefaultTravelOpacity,
		ExtrusionRadius: cfg.ExtrusionRadius,
		TravelRadius:    cfg.TravelRadius,
	}
	if model == nil {
		return res
	}

	for _, l := range model.Layers {
		if l.Index > maxLayer {
			break
		}
		for _, s := range l.Segments {
			if s.Extruding {
				res.Extruding = append(res.Extruding, s)
			} else if cfg.TravelVisible {
				res.Travel = append(res.Travel, s)
			}
		}
	}

	res.ExtrudingInstances = Instances(res.Extruding, cfg.ExtrusionRadius)
	res.TravelInstances = Instances(res.Travel, cfg.TravelRadius)

	var padding float64
	switch {
	case len(res.Extruding) > 0 && len(res.Travel) > 0:
		padding = math.Max(cfg.ExtrusionRadius, cfg.TravelRadius)
	case len(res.Extruding) > 0:
		padding = cfg.ExtrusionRadius
	case len(res.Travel) > 0:
		padding = cfg.TravelRadius
	}

	box := toolpath.SegmentBounds(res.Extruding, 0).Union(toolpath.SegmentBounds(res.Travel, 0))
	if padding > 0 {
		box = box.ExpandByScalar(padding)
	}
	res.VisibleBounds = box
	return res
}

// Instances derives one instance per segment, index-aligned with segments.
// Degenerate segments keep their slot with an identity transform at the midpoint.
func Instances(segments []toolpath.Segment, radius float64) []Instance {
	out := make([]Instance, len(segments))
	for i, s := range segments {
		out[i] = instanceFor(s, radius)
	}
	return out
}

func instanceFor(s toolpath.Segment, radius float64) Instance {
	mid := s.Midpoint()
	dir := s.End.Sub(s.Start)
	length := dir.Len()
	if length < DegenerateLength {
		return Instance{
			Translation: mid,
			Rotation:    mgl64.QuatIdent(),
			Scale:       mgl64.Vec3{1, 1, 1},
		}
	}
	return Instance{
		Translation: mid,
		Rotation:    mathutil.ShortestArc(mathutil.UpAxis, dir.Mul(1/length)),
		Scale:       mgl64.Vec3{radius, length, radius},
	}
}
