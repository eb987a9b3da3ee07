package geometry

import (
	"image/color"
	"math"

	"toolpath-viewer/internal/mathutil"
)

// Defaults matching the viewer's stock appearance.
const (
	DefaultExtrusionRadius = 0.4
	DefaultTravelRadius    = DefaultExtrusionRadius * 0.4
	DefaultTravelBlend     = 0.7
	DefaultTravelOpacity   = 0.4
)

var (
	// DefaultBaseColor is the extrusion color (#3b82f6).
	DefaultBaseColor = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}

	// TravelTint is the color travel moves are blended toward (#94a3b8).
	TravelTint = color.NRGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// DisplayConfig selects how a model is turned into renderable instances.
type DisplayConfig struct {
	ExtrusionRadius float64
	TravelRadius    float64
	BaseColor       color.NRGBA
	TravelBlend     float64 // 0 = base color, 1 = TravelTint
	TravelVisible   bool
}

// DefaultDisplayConfig returns the stock display settings with travel moves shown.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		ExtrusionRadius: DefaultExtrusionRadius,
		TravelRadius:    DefaultTravelRadius,
		BaseColor:       DefaultBaseColor,
		TravelBlend:     DefaultTravelBlend,
		TravelVisible:   true,
	}
}

// TravelColor returns BaseColor blended toward TravelTint by TravelBlend.
func (c DisplayConfig) TravelColor() color.NRGBA {
	t := math.Max(0, math.Min(1, c.TravelBlend))
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(mathutil.Lerp(float64(a), float64(b), t)))
	}
	return color.NRGBA{
		R: mix(c.BaseColor.R, TravelTint.R),
		G: mix(c.BaseColor.G, TravelTint.G),
		B: mix(c.BaseColor.B, TravelTint.B),
		A: c.BaseColor.A,
	}
}
