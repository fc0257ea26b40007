package joint

import (
	"fmt"

	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/rigid"
)

// Joint is a pivot pose shared by two bodies.
type Joint struct {
	rigid.Body
	First  *rigid.RigidBody
	Second *rigid.RigidBody
}

func newJoint(pos linalg.Vector3, rot linalg.Matrix3x3, first, second *rigid.RigidBody) (Joint, error) {
	if first == nil || second == nil {
		return Joint{}, fmt.Errorf("%w: joint needs two bodies", rigid.ErrInvalidConstruction)
	}
	if first == second {
		return Joint{}, fmt.Errorf("%w: joint cannot connect a body to itself", rigid.ErrInvalidConstruction)
	}
	return Joint{Body: rigid.NewBody(pos, rot), First: first, Second: second}, nil
}

// SaddleJoint bends about two axes. It holds state only.
type SaddleJoint struct {
	Joint
	AxisA, AxisB   linalg.Vector3
	AngleA, AngleB float64
}

func NewSaddleJoint(pos linalg.Vector3, rot linalg.Matrix3x3, first, second *rigid.RigidBody, axisA, axisB linalg.Vector3) (*SaddleJoint, error) {
	j, err := newJoint(pos, rot, first, second)
	if err != nil {
		return nil, err
	}
	return &SaddleJoint{Joint: j, AxisA: axisA, AxisB: axisB}, nil
}

// Bend is not solved for saddle joints.
func (s *SaddleJoint) Bend(deltaA, deltaB float64) error {
	return fmt.Errorf("saddle bend: %w", ErrNotImplemented)
}

// BallJoint bends freely about the pivot, parameterized by Euler angles. It
// holds state only.
type BallJoint struct {
	Joint
	Phi, Theta, Psi float64
}

func NewBallJoint(pos linalg.Vector3, rot linalg.Matrix3x3, first, second *rigid.RigidBody) (*BallJoint, error) {
	j, err := newJoint(pos, rot, first, second)
	if err != nil {
		return nil, err
	}
	return &BallJoint{Joint: j}, nil
}

// Bend is not solved for ball joints.
func (b *BallJoint) Bend(phi, theta, psi float64) error {
	return fmt.Errorf("ball bend: %w", ErrNotImplemented)
}
