package gcode

import (
	"github.com/go-gl/mathgl/mgl64"

	"toolpath-viewer/internal/toolpath"
)

// Step applies one supported command and returns the next state. moved is true when
// the command emitted a segment.
func (s MachineState) Step(cmd Command) (next MachineState, seg toolpath.Segment, moved bool) {
	next = s
	switch cmd.Code {
	case "G0", "G1":
		next.Motion = cmd.Code
		return next.move(cmd)
	case "G20":
		next.UnitScale = Inches
	case "G21":
		next.UnitScale = Millimeters
	case "G90":
		next.Positioning = Absolute
	case "G91":
		next.Positioning = Relative
	case "M82":
		next.Extrusion = Absolute
	case "M83":
		next.Extrusion = Relative
	case "G92":
		next = next.redefine(cmd)
	case "G28":
		next = next.home(cmd)
	}
	return next, toolpath.Segment{}, false
}

// move applies a linear move. Moves without any axis word (feed rate only) do not
// emit a segment.
func (s MachineState) move(cmd Command) (MachineState, toolpath.Segment, bool) {
	prev := s.Pos
	pos := s.Pos
	delta := 0.0
	hasAxis := false

	for _, w := range cmd.Words {
		v := w.Value * s.UnitScale
		switch w.Letter {
		case 'X', 'Y', 'Z':
			k := int(w.Letter - 'X')
			if s.Positioning == Relative {
				pos[k] += v
			} else {
				pos[k] = v
			}
			hasAxis = true
		case 'E':
			if s.Extrusion == Relative {
				delta = v
			} else {
				delta = v - s.E
			}
			hasAxis = true
		}
	}
	if !hasAxis {
		return s, toolpath.Segment{}, false
	}

	s.Pos = pos
	s.E += delta
	return s, toolpath.Segment{
		Start:     prev,
		End:       pos,
		Extruding: delta > ExtrusionEpsilon,
	}, true
}

// redefine implements G92: the named axes take the given values without moving.
// With no axis words every axis is reset to zero.
func (s MachineState) redefine(cmd Command) MachineState {
	named := false
	for _, w := range cmd.Words {
		v := w.Value * s.UnitScale
		switch w.Letter {
		case 'X', 'Y', 'Z':
			s.Pos[w.Letter-'X'] = v
			named = true
		case 'E':
			s.E = v
			named = true
		}
	}
	if !named {
		s.Pos = mgl64.Vec3{}
		s.E = 0
	}
	return s
}

// home implements G28: the named axes (all of X, Y, Z when none are named) move to
// the origin. The path taken is machine-specific, so no segment is emitted.
func (s MachineState) home(cmd Command) MachineState {
	named := false
	for _, w := range cmd.Words {
		switch w.Letter {
		case 'X', 'Y', 'Z':
			s.Pos[w.Letter-'X'] = 0
			named = true
		}
	}
	if !named {
		s.Pos = mgl64.Vec3{}
	}
	return s
}
