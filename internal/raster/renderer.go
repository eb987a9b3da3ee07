// Package raster is a software preview renderer for geometry results. Every instance
// is drawn as a capped cylinder through a z-buffer triangle rasterizer with flat
// lighting and ACES tone mapping; travel moves are composited translucently on top.
package raster

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"toolpath-viewer/internal/camera"
	"toolpath-viewer/internal/geometry"
	"toolpath-viewer/internal/texture"
	"toolpath-viewer/internal/toolpath"
)

var (
	// ErrNotReleased is returned by Install while a previous result is still held.
	ErrNotReleased = errors.New("raster: previous result not released")
	// ErrNothingInstalled is returned by Render before any result is installed.
	ErrNothingInstalled = errors.New("raster: nothing installed")
)

// Renderer holds at most one installed geometry result. It satisfies viewer.Installer.
type Renderer struct {
	mu         sync.Mutex
	light      Light
	mesh       Mesh
	background *image.NRGBA
	res        *geometry.Result
}

// NewRenderer creates a renderer with the default lights and a transparent background.
func NewRenderer() *Renderer {
	return &Renderer{
		light: DefaultLight(),
		mesh:  UnitCylinder(CylinderSides),
	}
}

// SetBackground sets an image stretched behind the scene. nil restores transparency.
func (r *Renderer) SetBackground(img *image.NRGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.background = img
}

// Install takes ownership of res until Release.
func (r *Renderer) Install(res geometry.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.res != nil {
		return ErrNotReleased
	}
	r.res = &res
	return nil
}

// Release drops the installed result. It is safe to call when nothing is installed.
func (r *Renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.res = nil
}

// Installed reports whether a result is held.
func (r *Renderer) Installed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.res != nil
}

// Render draws the installed result from the given framing into a square image of
// size*supersample pixels. Callers downsample supersampled output themselves.
func (r *Renderer) Render(f camera.Framing, size, supersample int) (*image.NRGBA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.res == nil {
		return nil, ErrNothingInstalled
	}

	renderSize := size * max(supersample, 1)
	fb := NewFrameBuffer(renderSize, renderSize)
	if r.background != nil {
		fb.Fill(texture.Scale(r.background, renderSize, renderSize))
	}

	d := drawer{
		fb:    fb,
		proj:  camera.NewProjector(f, camera.DefaultFOV, renderSize),
		eye:   f.Position,
		light: &r.light,
		mesh:  r.mesh,
		world: make([]mgl64.Vec3, len(r.mesh.Verts)),
		scr:   make([]Vertex, len(r.mesh.Verts)),
		ok:    make([]bool, len(r.mesh.Verts)),
	}
	d.draw(r.res.Extruding, r.res.ExtrudingInstances, r.res.ExtrusionColor, 1)
	d.draw(r.res.Travel, r.res.TravelInstances, r.res.TravelColor, r.res.TravelOpacity)

	return fb.Image(), nil
}

// drawer holds per-render scratch buffers reused across instances.
type drawer struct {
	fb    *FrameBuffer
	proj  camera.Projector
	eye   mgl64.Vec3
	light *Light
	mesh  Mesh

	world []mgl64.Vec3
	scr   []Vertex
	ok    []bool
}

func (d *drawer) draw(segs []toolpath.Segment, insts []geometry.Instance, c color.NRGBA, opacity float64) {
	for i, inst := range insts {
		// Degenerate segments keep an identity slot that has nothing to draw.
		if segs[i].Length() < geometry.DegenerateLength {
			continue
		}
		m := inst.Matrix()
		for k, v := range d.mesh.Verts {
			w := m.Mul4x1(v.Vec4(1)).Vec3()
			d.world[k] = w
			x, y, z, ok := d.proj.Project(w)
			d.scr[k] = Vertex{X: x, Y: y, Z: z}
			d.ok[k] = ok
		}

		for _, tri := range d.mesh.Tris {
			if !d.ok[tri[0]] || !d.ok[tri[1]] || !d.ok[tri[2]] {
				continue
			}
			w0, w1, w2 := d.world[tri[0]], d.world[tri[1]], d.world[tri[2]]
			n := w1.Sub(w0).Cross(w2.Sub(w0))
			if n.Len() < 1e-12 {
				continue
			}
			n = n.Normalize()
			if n.Dot(d.eye.Sub(w0)) < 0 {
				n = n.Mul(-1)
			}
			lit := d.light.Shade(c, n)

			v := [3]Vertex{d.scr[tri[0]], d.scr[tri[1]], d.scr[tri[2]]}
			if opacity >= 1 {
				RasterizeTriangle(d.fb, v, lit)
			} else {
				RasterizeTriangleBlend(d.fb, v, lit, opacity)
			}
		}
	}
}
