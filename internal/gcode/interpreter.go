// Package gcode interprets G-code text into a layered toolpath model.
package gcode

import (
	"fmt"
	"os"
	"strings"

	"toolpath-viewer/internal/toolpath"
)

// supported lists the codes the interpreter acts on. Everything else is skipped.
var supported = map[string]bool{
	"G0": true, "G1": true,
	"G20": true, "G21": true,
	"G28": true,
	"G90": true, "G91": true,
	"G92": true,
	"M82": true, "M83": true,
}

func isMotion(code string) bool {
	return code == "G0" || code == "G1"
}

func isAxis(letter byte) bool {
	return letter == 'X' || letter == 'Y' || letter == 'Z' || letter == 'E'
}

// ParseFile reads and interprets one G-code file.
func ParseFile(path string) (*toolpath.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gcode: read %s: %w", path, err)
	}
	return Interpret(string(raw))
}

// Interpret converts complete G-code text into a Model. It fails with a *ParseError on
// the first malformed motion or modal line; unknown commands are skipped.
func Interpret(text string) (*toolpath.Model, error) {
	var (
		state       = NewMachineState()
		segments    []toolpath.Segment
		markers     []int
		metadata    = make(map[string]string)
		skipped     = make(map[string]int)
		motionStart bool
	)

	lineNo := 0
	for rest := text; len(rest) > 0; {
		var raw string
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			raw, rest = rest[:i], rest[i+1:]
		} else {
			raw, rest = rest, ""
		}
		lineNo++

		code, comments := splitComments(raw)
		cmds, unsupported, err := parseLine(stripChecksum(code), state)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Reason: err.Error()}
		}
		for _, cmd := range cmds {
			if isMotion(cmd.Code) {
				motionStart = true
			}
		}

		for _, c := range comments {
			if isLayerMarker(c) {
				markers = append(markers, len(segments))
				continue
			}
			if motionStart {
				continue
			}
			if k, v, ok := parseAnnotation(c); ok {
				metadata[k] = v
			}
		}

		for _, name := range unsupported {
			skipped[name]++
		}
		for _, cmd := range cmds {
			var seg toolpath.Segment
			var moved bool
			state, seg, moved = state.Step(cmd)
			if moved {
				segments = append(segments, seg)
			}
		}
	}

	bounds := toolpath.ComputeBounds(segments)
	return &toolpath.Model{
		Layers:          toolpath.Aggregate(segments, markers),
		Bounds:          bounds.Box,
		EstimatedHeight: bounds.EstimatedHeight,
		Metadata:        metadata,
		TotalCommands:   bounds.CommandCount,
		Skipped:         skipped,
	}, nil
}

// parseLine classifies the code part of one line into the commands to apply, in order:
// modal codes as they appear, then the motion. Several codes may share a line
// ("G21 G91", "G90 G1 X10"); unsupported ones are returned by name so the caller can
// count them. Blank lines, lines that do not start with a word and lines whose first
// code is unsupported yield nothing and are not tokenized further, so free text after
// an unknown code ("M117 Printing...") is not an error.
func parseLine(code string, state MachineState) (cmds []Command, unsupported []string, err error) {
	i := skipSpace(code, 0)
	if i >= len(code) {
		return nil, nil, nil
	}

	first, next, ferr := scanWord(code, i, false)
	if ferr != nil {
		return nil, nil, nil
	}
	if first.Letter == 'N' {
		if skipSpace(code, next) >= len(code) {
			return nil, nil, nil
		}
		first, next, ferr = scanWord(code, next, false)
		if ferr != nil {
			return nil, nil, nil
		}
	}

	// Axis words without a code continue the last linear motion.
	label := state.Motion
	if isAxis(first.Letter) {
		if state.Motion == "" {
			return nil, nil, nil
		}
	} else {
		label = codeName(first)
		if !supported[label] {
			return nil, []string{label}, nil
		}
	}

	words, err := tokenize(code[next:], true)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", label, err)
	}
	cmds, unsupported, err = assemble(append([]Word{first}, words...), state.Motion)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", label, err)
	}
	return cmds, unsupported, nil
}

// assemble splits a line's words into code words and parameter words. Parameters go
// to G92 or G28 when present, otherwise to the motion code, which defaults to the
// previous motion when axis words appear without one. Of several motion codes the
// last wins, as they share a modal group.
func assemble(words []Word, lastMotion string) (cmds []Command, unsupported []string, err error) {
	var (
		motion string
		params []Word
		target = -1 // index in cmds of the G92/G28 taking the parameters
	)
	for _, w := range words {
		if w.Letter != 'G' && w.Letter != 'M' {
			params = append(params, w)
			continue
		}
		if w.Bare {
			return nil, nil, fmt.Errorf("word %c: missing number", w.Letter)
		}
		name := codeName(w)
		switch {
		case !supported[name]:
			unsupported = append(unsupported, name)
		case isMotion(name):
			motion = name
		default:
			if name == "G92" || name == "G28" {
				target = len(cmds)
			}
			cmds = append(cmds, Command{Code: name})
		}
	}

	homing := target >= 0 && cmds[target].Code == "G28"
	hasAxis := false
	for _, w := range params {
		if w.Bare && !homing {
			return nil, nil, fmt.Errorf("word %c: missing number", w.Letter)
		}
		hasAxis = hasAxis || isAxis(w.Letter)
	}

	switch {
	case target >= 0:
		cmds[target].Words = params
		params = nil
	case motion == "" && hasAxis:
		motion = lastMotion
	}
	if motion != "" {
		cmds = append(cmds, Command{Code: motion, Words: params})
	}
	return cmds, unsupported, nil
}
