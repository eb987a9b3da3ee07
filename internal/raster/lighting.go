package raster

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Light is a fixed studio rig for toolpath tubes: a key light, a rim light from
// behind and a sky term that brightens upward faces so layer tops read clearly.
// Directions are unit vectors in world space (+Z up) pointing toward the light.
type Light struct {
	Key, Rim mgl64.Vec3
	// Half is the Blinn half-vector between Key and the default view direction.
	Half mgl64.Vec3

	Ambient, Sky, KeyGain, RimGain float64
	Gloss, Shininess               float64
	Exposure                       float64
}

// DefaultLight places the key above the default camera diagonal with the rim opposite.
func DefaultLight() Light {
	key := mgl64.Vec3{140, 180, 260}.Normalize()
	toEye := mgl64.Vec3{1, 1, 1}.Normalize()
	return Light{
		Key:       key,
		Rim:       mgl64.Vec3{-210, -160, 130}.Normalize(),
		Half:      key.Add(toEye).Normalize(),
		Ambient:   0.45,
		Sky:       0.40,
		KeyGain:   1.20,
		RimGain:   0.35,
		Gloss:     0.30,
		Shininess: 16,
		Exposure:  1,
	}
}

// Shade lights the sRGB color c on a face with unit normal n. Normals are expected
// to face the viewer; back-lit faces still get the ambient and sky terms. Alpha is
// left untouched.
func (l *Light) Shade(c color.NRGBA, n mgl64.Vec3) color.NRGBA {
	k := l.Ambient + l.Sky*(0.5+0.5*n[2])
	k += l.KeyGain*math.Max(n.Dot(l.Key), 0) + l.RimGain*math.Max(n.Dot(l.Rim), 0)
	k += l.Gloss * math.Pow(math.Max(n.Dot(l.Half), 0), l.Shininess)
	k *= l.Exposure

	channel := func(v uint8) uint8 {
		return clamp255(math.Pow(filmic(linear[v]*k), 1/gamma) * 255)
	}
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: c.A}
}

const gamma = 2.2

// linear maps an 8-bit sRGB channel to linear light.
var linear [256]float64

func init() {
	for i := range linear {
		linear[i] = math.Pow(float64(i)/255, gamma)
	}
}

// filmic is the ACES fitted curve; it keeps highlights on the key side from clipping.
func filmic(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
