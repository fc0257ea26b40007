package viz

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/airtime/internal/rigid"
)

// RenderDrawables draws the triangle edges of every drawable, placed by its
// world transform, and returns the number of edges drawn. Edges with an
// endpoint behind the camera are skipped.
func RenderDrawables(c *Canvas, cam *Camera, drawables []rigid.Drawable) int {
	if c == nil || cam == nil {
		return 0
	}
	p := cam.projector(c.SubWidth(), c.SubHeight())
	drawn := 0
	for _, d := range drawables {
		m := d.WorldTransform()
		mesh := d.Mesh()
		for _, e := range mesh.Edges() {
			a := m.Mul4x1(mesh.Point(e[0]).Vec().Vec4(1)).Vec3()
			b := m.Mul4x1(mesh.Point(e[1]).Vec().Vec4(1)).Vec3()
			if drawSegment(c, p, a, b) {
				drawn++
			}
		}
	}
	return drawn
}

// RenderAxes draws the world x, y and z axes from origin.
func RenderAxes(c *Canvas, cam *Camera, origin mgl64.Vec3, length float64) {
	if c == nil || cam == nil {
		return
	}
	p := cam.projector(c.SubWidth(), c.SubHeight())
	for _, axis := range []mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		drawSegment(c, p, origin, origin.Add(axis.Mul(length)))
	}
}

func drawSegment(c *Canvas, p projector, a, b mgl64.Vec3) bool {
	x0, y0, _, ok0 := p.project(a)
	x1, y1, _, ok1 := p.project(b)
	if !ok0 || !ok1 || far(c, x0, y0) || far(c, x1, y1) {
		return false
	}
	c.DrawLine(x0, y0, x1, y1)
	return true
}

// far rejects points so far off the canvas that walking a line to them would
// be wasted work.
func far(c *Canvas, x, y int) bool {
	w, h := c.SubWidth(), c.SubHeight()
	return x < -4*w || x > 5*w || y < -4*h || y > 5*h
}
