package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolpath-viewer/internal/gcode"
	"toolpath-viewer/internal/geometry"
)

type nopInstaller struct{}

func (nopInstaller) Install(geometry.Result) error { return nil }
func (nopInstaller) Release()                      {}

func TestStaleLoadDiscarded(t *testing.T) {
	s := NewSession(nopInstaller{})

	older := s.begin()
	newer := s.begin()

	slow, err := gcode.Interpret("G1 X1 E1\n")
	require.NoError(t, err)
	fast, err := gcode.Interpret("G1 X2 E1\n")
	require.NoError(t, err)

	require.NoError(t, s.finish(newer, "fast.gcode", fast, nil))
	assert.ErrorIs(t, s.finish(older, "slow.gcode", slow, nil), ErrSuperseded)

	d, err := s.Details()
	require.NoError(t, err)
	assert.Equal(t, "fast.gcode", d.Name)
}
