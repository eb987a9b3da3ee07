package gcode

import (
	"strings"
)

// isLayerMarker recognizes the layer-change comments emitted by common slicers:
// ";LAYER:12" (Cura), ";LAYER_CHANGE" (PrusaSlicer, OrcaSlicer) and
// "; layer 3, Z = 0.6" (Simplify3D).
func isLayerMarker(comment string) bool {
	c := strings.TrimSpace(comment)
	if len(c) < 5 || !strings.EqualFold(c[:5], "layer") {
		return false
	}
	rest := c[5:]
	switch {
	case strings.EqualFold(rest, "_change"):
		return true
	case strings.HasPrefix(rest, ":"):
		return true
	case len(rest) > 1 && isSpace(rest[0]):
		r := strings.TrimSpace(rest)
		return r != "" && (isDigit(r[0]) || r[0] == '-')
	}
	return false
}

// parseAnnotation extracts a header annotation. "key = value" is accepted with any key;
// "key: value" only when the key is a single token, so prose such as
// "generated on 2024-01-01 at 10:00" is not mistaken for one.
func parseAnnotation(comment string) (key, value string, ok bool) {
	c := strings.TrimSpace(comment)
	if i := strings.IndexByte(c, '='); i > 0 {
		key = strings.TrimSpace(c[:i])
		value = strings.TrimSpace(c[i+1:])
		return key, value, key != ""
	}
	if i := strings.IndexByte(c, ':'); i > 0 {
		key = strings.TrimSpace(c[:i])
		if key == "" || strings.ContainsAny(key, " \t") {
			return "", "", false
		}
		return key, strings.TrimSpace(c[i+1:]), true
	}
	return "", "", false
}
