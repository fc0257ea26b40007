package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/rigid"
)

const (
	fieldOfView  = 50.0
	nearPlane    = 0.1
	farPlane     = 100.0
	maxElevation = 1.57
	minDistance  = 1.0
	maxDistance  = 90.0
)

// Camera orbits Target at Distance. Azimuth is measured in the xy plane
// from +x, Elevation from that plane towards +z.
type Camera struct {
	Azimuth, Elevation, Distance float64
	Target                       mgl64.Vec3
}

func NewCamera(cfg config.CameraConfig) *Camera {
	c := &Camera{Azimuth: cfg.Azimuth, Elevation: cfg.Elevation, Distance: cfg.Distance}
	c.clamp()
	return c
}

func (c *Camera) clamp() {
	c.Elevation = mgl64.Clamp(c.Elevation, -maxElevation, maxElevation)
	c.Distance = mgl64.Clamp(c.Distance, minDistance, maxDistance)
}

// Orbit turns the camera around its target.
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	c.Azimuth = math.Mod(c.Azimuth+dAzimuth, 2*math.Pi)
	c.Elevation += dElevation
	c.clamp()
}

// Zoom scales the distance to the target; factors below one move closer.
func (c *Camera) Zoom(factor float64) {
	if factor > 0 {
		c.Distance *= factor
		c.clamp()
	}
}

func (c *Camera) Eye() mgl64.Vec3 {
	sa, ca := math.Sincos(c.Azimuth)
	se, ce := math.Sincos(c.Elevation)
	return c.Target.Add(mgl64.Vec3{ce * ca, ce * sa, se}.Mul(c.Distance))
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 0, 1})
}

func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(fieldOfView), aspect, nearPlane, farPlane)
}

// Frame points the camera at the mean position of the drawables.
func (c *Camera) Frame(drawables []rigid.Drawable) {
	if len(drawables) == 0 {
		return
	}
	var sum mgl64.Vec3
	for _, d := range drawables {
		sum = sum.Add(d.WorldTransform().Col(3).Vec3())
	}
	c.Target = sum.Mul(1 / float64(len(drawables)))
}

// projector maps world points to dot coordinates of a w x h canvas.
type projector struct {
	mvp  mgl64.Mat4
	w, h float64
}

func (c *Camera) projector(w, h int) projector {
	aspect := float64(w) / float64(h)
	return projector{mvp: c.Projection(aspect).Mul4(c.View()), w: float64(w), h: float64(h)}
}

// project returns screen coordinates and NDC depth. ok is false for points
// behind the camera or outside the clip depth range.
func (p projector) project(v mgl64.Vec3) (x, y int, depth float64, ok bool) {
	clip := p.mvp.Mul4x1(v.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}
	x = int(math.Round((ndc.X() + 1) / 2 * (p.w - 1)))
	y = int(math.Round((1 - ndc.Y()) / 2 * (p.h - 1)))
	return x, y, ndc.Z(), true
}

// Project maps a world point onto a canvas of w x h dots.
func (c *Camera) Project(v mgl64.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	return c.projector(w, h).project(v)
}
