package gcode

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects how coordinate words are read.
type Mode int

const (
	Absolute Mode = iota
	Relative
)

func (m Mode) String() string {
	if m == Relative {
		return "relative"
	}
	return "absolute"
}

// Unit scale factors applied to every coordinate at read time.
const (
	Millimeters = 1.0
	Inches      = 25.4
)

// ExtrusionEpsilon is the minimum extrusion-axis advance that marks a move as extruding.
const ExtrusionEpsilon = 1e-6

// MachineState is the modal machine configuration during one interpretation.
// Step takes a state value and returns the next one; nothing is shared between calls.
type MachineState struct {
	Pos         mgl64.Vec3
	E           float64
	Positioning Mode
	Extrusion   Mode
	UnitScale   float64

	// Motion is the last linear motion code ("G0" or "G1"), used by lines that
	// carry only axis words. Empty until the first motion.
	Motion string
}

// NewMachineState returns the power-on state: origin, absolute modes, millimeters.
func NewMachineState() MachineState {
	return MachineState{UnitScale: Millimeters}
}

// Word is one letter/number pair. Bare is set for a letter without a number,
// which only homing accepts ("G28 X Y").
type Word struct {
	Letter byte
	Value  float64
	Bare   bool
}

// Command is a code word ("G1") and its parameter words.
type Command struct {
	Code  string
	Words []Word
}

// ParseError reports malformed input. Interpretation stops at the first one and no
// partial model is returned.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gcode: line %d: %s", e.Line, e.Reason)
}
