package rigid

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/airtime/internal/linalg"
)

// Member is anything a MultiBody can carry.
type Member interface {
	Translate(v linalg.Vector3)
	Rotate(pivot linalg.Vector3, r linalg.Matrix3x3)
	Mass() float64
	CenterOfMass() linalg.Vector3
	InertiaTensorAt(pos linalg.Vector3, rot linalg.Matrix3x3) linalg.Matrix3x3
}

// Stepper advances by dt seconds.
type Stepper interface {
	TimeStep(dt float64) error
}

// Drawable is the rendering boundary: a transform recomputed from the latest
// pose plus immutable geometry.
type Drawable interface {
	WorldTransform() mgl64.Mat4
	Mesh() Geometry
}

// DrawableSource exposes nested drawables.
type DrawableSource interface {
	Drawables() []Drawable
}

// MultiBody is an ordered aggregate of members. Its composite pose is derived
// from the members; it stores none of its own.
type MultiBody struct {
	members []Member
	mass    float64
}

// NewMultiBody rejects an empty aggregate and one whose total mass is not
// positive, so CenterOfMass is always defined.
func NewMultiBody(members ...Member) (*MultiBody, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: multibody needs at least one member", ErrInvalidConstruction)
	}
	total := 0.0
	for _, m := range members {
		total += m.Mass()
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: multibody total mass must be positive, got %v", ErrInvalidConstruction, total)
	}
	return &MultiBody{members: members, mass: total}, nil
}

func (mb *MultiBody) Members() []Member { return mb.members }
func (mb *MultiBody) Mass() float64     { return mb.mass }

// Translate moves every member by v.
func (mb *MultiBody) Translate(v linalg.Vector3) {
	for _, m := range mb.members {
		m.Translate(v)
	}
}

// Rotate applies r about pivot to every member. Members stay rigid relative
// to each other only because they share the pivot.
func (mb *MultiBody) Rotate(pivot linalg.Vector3, r linalg.Matrix3x3) {
	for _, m := range mb.members {
		m.Rotate(pivot, r)
	}
}

// CenterOfMass is the mass-weighted mean of the members' centers.
func (mb *MultiBody) CenterOfMass() linalg.Vector3 {
	var cm linalg.Vector3
	for _, m := range mb.members {
		cm = cm.Add(m.CenterOfMass().Scale(m.Mass()))
	}
	return cm.Scale(1 / mb.mass)
}

// InertiaTensorAt sums the member tensors about point in world axes.
func (mb *MultiBody) InertiaTensorAt(point linalg.Vector3) linalg.Matrix3x3 {
	return mb.InertiaTensorIn(point, linalg.Identity())
}

// InertiaTensorIn sums the member tensors about point in the axes of rot.
func (mb *MultiBody) InertiaTensorIn(point linalg.Vector3, rot linalg.Matrix3x3) linalg.Matrix3x3 {
	total := linalg.Zero()
	for _, m := range mb.members {
		total = total.Add(m.InertiaTensorAt(point, rot))
	}
	return total
}

// TimeStep steps every member that is a Stepper, in order, stopping at the
// first failure.
func (mb *MultiBody) TimeStep(dt float64) error {
	if err := ValidateTimeStep(dt); err != nil {
		return err
	}
	for i, m := range mb.members {
		s, ok := m.(Stepper)
		if !ok {
			continue
		}
		if err := s.TimeStep(dt); err != nil {
			return fmt.Errorf("member %d: %w", i, err)
		}
	}
	return nil
}

// Drawables collects the renderable members.
func (mb *MultiBody) Drawables() []Drawable {
	out := make([]Drawable, 0, len(mb.members))
	for _, m := range mb.members {
		switch d := m.(type) {
		case DrawableSource:
			out = append(out, d.Drawables()...)
		case Drawable:
			out = append(out, d)
		}
	}
	return out
}
