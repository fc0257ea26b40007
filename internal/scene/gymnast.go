package scene

import (
	"fmt"

	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/control"
	"github.com/san-kum/airtime/internal/joint"
	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/rigid"
)

var (
	trunkColor = rigid.Color{R: 0, G: 0.5, B: 1}
	limbColor  = rigid.Color{R: 0, G: 0.5, B: 0}
	hingeColor = rigid.Color{R: 1, G: 0, B: 0}

	hingePivot = linalg.Vector3{X: 0.5, Y: -3.5, Z: 4}
)

// Gymnast is a flat trunk with one limb hinged at its lower edge.
type Gymnast struct {
	trunk *rigid.Shape
	limb  *rigid.Shape
	hinge *joint.HingeJoint
	body  *rigid.MultiBody

	servo  *control.PID
	lo, hi float64
	t      float64
}

func NewGymnast(cfg config.GymnastConfig) (*Gymnast, error) {
	trunk, err := rigid.NewCuboid(1, 8, 8, trunkColor, linalg.Vector3{}, linalg.Identity())
	if err != nil {
		return nil, fmt.Errorf("trunk: %w", err)
	}
	limb, err := rigid.NewCuboid(4, 1, 1, limbColor, linalg.Vector3{X: 2.5, Y: -3.5, Z: 4.5}, linalg.Identity())
	if err != nil {
		return nil, fmt.Errorf("limb: %w", err)
	}
	hinge, err := joint.NewCylinderHinge(1, 1, hingeColor, hingePivot, linalg.Identity(),
		limb.RigidBody, trunk.RigidBody, linalg.Vector3{Z: 1}, cfg.StartAngle)
	if err != nil {
		return nil, fmt.Errorf("hinge: %w", err)
	}
	g := &Gymnast{trunk: trunk, limb: limb, hinge: hinge, lo: cfg.MinAngle, hi: cfg.MaxAngle}
	if sv := cfg.Servo; sv.Enabled {
		g.servo = control.NewPID(sv.Kp, sv.Ki, sv.Kd, sv.Target)
		g.servo.Limit = sv.MaxRate
	} else if cfg.BendRate != 0 {
		if err := hinge.SetDrive(cfg.BendRate, cfg.MinAngle, cfg.MaxAngle); err != nil {
			return nil, err
		}
	}
	g.body, err = rigid.NewMultiBody(trunk, limb, hinge)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gymnast) Name() string                { return "gymnast" }
func (g *Gymnast) Hinge() *joint.HingeJoint    { return g.hinge }
func (g *Gymnast) Body() *rigid.MultiBody      { return g.body }
func (g *Gymnast) Drawables() []rigid.Drawable { return g.body.Drawables() }
func (g *Gymnast) Bend(delta float64) error    { return g.hinge.Bend(delta) }

func (g *Gymnast) Setpoint() (float64, bool) {
	if g.servo == nil {
		return 0, false
	}
	return g.servo.Target, true
}

// TimeStep advances the hinge drive by dt. With a servo the PID output sets
// the bend rate, clamped so the angle stays within the limits.
func (g *Gymnast) TimeStep(dt float64) error {
	if g.servo == nil {
		return g.body.TimeStep(dt)
	}
	if err := rigid.ValidateTimeStep(dt); err != nil {
		return err
	}
	angle := g.hinge.Angle()
	rate := g.servo.Compute(angle, g.t)
	next := min(max(angle+rate*dt, g.lo), g.hi)
	if next != angle {
		if err := g.hinge.Bend(next - angle); err != nil {
			return err
		}
	}
	g.t += dt
	return g.body.TimeStep(dt)
}

func (g *Gymnast) Bodies() []NamedBody {
	return []NamedBody{
		{Name: "trunk", Body: g.trunk.RigidBody},
		{Name: "limb", Body: g.limb.RigidBody},
		{Name: "hinge", Body: g.hinge.Marker().RigidBody},
	}
}
