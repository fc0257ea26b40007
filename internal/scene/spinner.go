package scene

import (
	"fmt"

	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/rigid"
)

var spinnerColor = rigid.Color{R: 1, G: 0.6, B: 0}

// Spinner is a single cuboid rotating freely about its center of mass.
type Spinner struct {
	shape *rigid.Shape
	rotor *rigid.RotatingBody
}

func NewSpinner(cfg config.SpinnerConfig) (*Spinner, error) {
	d := cfg.Dims
	shape, err := rigid.NewCuboid(d[0], d[1], d[2], spinnerColor, linalg.Vector3{}, linalg.Identity())
	if err != nil {
		return nil, fmt.Errorf("spinner body: %w", err)
	}
	omega := linalg.Vector3{X: cfg.Omega[0], Y: cfg.Omega[1], Z: cfg.Omega[2]}
	rotor, err := rigid.NewRotatingBody(shape.RigidBody, omega)
	if err != nil {
		return nil, err
	}
	return &Spinner{shape: shape, rotor: rotor}, nil
}

func (s *Spinner) Name() string                { return "spinner" }
func (s *Spinner) Rotor() *rigid.RotatingBody  { return s.rotor }
func (s *Spinner) Drawables() []rigid.Drawable { return []rigid.Drawable{s.shape} }
func (s *Spinner) TimeStep(dt float64) error   { return s.rotor.TimeStep(dt) }

func (s *Spinner) Bodies() []NamedBody {
	return []NamedBody{{Name: "box", Body: s.shape.RigidBody}}
}
