// Package scene assembles bodies and joints into runnable simulations.
package scene

import (
	"fmt"
	"sort"

	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/joint"
	"github.com/san-kum/airtime/internal/rigid"
)

// NamedBody labels a body for recording and display.
type NamedBody struct {
	Name string
	Body *rigid.RigidBody
}

type Scene interface {
	Name() string
	TimeStep(dt float64) error
	Drawables() []rigid.Drawable
	Bodies() []NamedBody
}

// Spinning is implemented by scenes with a single free rotor.
type Spinning interface {
	Rotor() *rigid.RotatingBody
}

// Hinged is implemented by scenes driven through a hinge.
type Hinged interface {
	Hinge() *joint.HingeJoint
}

// Servoed is implemented by scenes that hold a joint at a setpoint. ok is
// false when the servo is off.
type Servoed interface {
	Setpoint() (target float64, ok bool)
}

type Registry struct {
	scenes map[string]func(*config.Config) (Scene, error)
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]func(*config.Config) (Scene, error))}

	r.scenes["gymnast"] = func(cfg *config.Config) (Scene, error) { return NewGymnast(cfg.Gymnast) }
	r.scenes["spinner"] = func(cfg *config.Config) (Scene, error) { return NewSpinner(cfg.Spinner) }

	return r
}

// Build constructs the scene named by cfg.Scene.
func (r *Registry) Build(cfg *config.Config) (Scene, error) {
	fn, ok := r.scenes[cfg.Scene]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", cfg.Scene)
	}
	s, err := fn(cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.Scene, err)
	}
	return s, nil
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
