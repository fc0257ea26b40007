package joint

import (
	"fmt"
	"math"

	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/rigid"
	"gonum.org/v1/gonum/mat"
)

// HingeJoint lets two bodies rotate relative to each other about the pivot's
// local z axis. Axis is that direction in world coordinates at construction.
type HingeJoint struct {
	Joint
	Axis linalg.Vector3

	angle  float64
	marker *rigid.Shape
	drive  drive
}

const axisTolerance = 1e-9

// pivotZ is the pivot's local z axis in world coordinates, in the frame
// convention of solve.
func pivotZ(rot linalg.Matrix3x3) linalg.Vector3 {
	return rot.Transpose().MulVec(linalg.Vector3{Z: 1})
}

type drive struct {
	enabled bool
	rate    float64
	lo, hi  float64
}

// NewHingeJoint connects first and second at a pivot with pose (pos, rot).
func NewHingeJoint(pos linalg.Vector3, rot linalg.Matrix3x3, first, second *rigid.RigidBody, axis linalg.Vector3, angle float64) (*HingeJoint, error) {
	j, err := newJoint(pos, rot, first, second)
	if err != nil {
		return nil, err
	}
	n, err := axis.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: hinge axis: %w", rigid.ErrInvalidConstruction, err)
	}
	if z := pivotZ(rot); !n.ApproxEqual(z, axisTolerance) {
		return nil, fmt.Errorf("%w: hinge axis %v is not the pivot z axis %v", rigid.ErrInvalidConstruction, n, z)
	}
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return nil, fmt.Errorf("%w: hinge angle %v", rigid.ErrInvalidConstruction, angle)
	}
	return &HingeJoint{Joint: j, Axis: n, angle: angle}, nil
}

// NewCylinderHinge is NewHingeJoint with a solid cylinder marker of the given
// radius and height sitting at the pivot. The marker contributes mass and is
// drawn.
func NewCylinderHinge(radius, height float64, color rigid.Color, pos linalg.Vector3, rot linalg.Matrix3x3, first, second *rigid.RigidBody, axis linalg.Vector3, angle float64) (*HingeJoint, error) {
	h, err := NewHingeJoint(pos, rot, first, second, axis, angle)
	if err != nil {
		return nil, err
	}
	marker, err := rigid.NewCylinder(radius, radius, height, color, pos, rot)
	if err != nil {
		return nil, fmt.Errorf("hinge marker: %w", err)
	}
	h.marker = marker
	return h, nil
}

func (h *HingeJoint) Angle() float64       { return h.angle }
func (h *HingeJoint) Marker() *rigid.Shape { return h.marker }

// Bend changes the hinge angle by delta radians.
//
// In the pivot frame, with z along the hinge, each body's inertia about the
// pivot relates its rotation (αx, αy, α) to the impulse it receives. Both
// bodies share αx and αy; the hinge passes a unit impulse about z from one
// to the other while the reaction (Tx, Ty) is free:
//
//	I_A·(αx, αy, αA) − (Tx, Ty, 0) = (0, 0,  1)
//	I_B·(αx, αy, αB) − (Tx, Ty, 0) = (0, 0, −1)
//
// The solution is scaled so that αB − αA equals delta. Every rotation is
// applied about the pivot point, which therefore never moves. Nothing is
// mutated when Bend fails.
func (h *HingeJoint) Bend(delta float64) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAngle, delta)
	}
	if delta == 0 {
		return nil
	}

	rotA, rotB, shared, err := h.solve(delta)
	if err != nil {
		return err
	}

	pivot := h.Position()
	h.First.Rotate(pivot, rotA)
	h.Second.Rotate(pivot, rotB)
	h.First.Rotate(pivot, shared)
	h.Second.Rotate(pivot, shared)
	h.Body.Rotate(pivot, shared)
	if h.marker != nil {
		h.marker.Rotate(pivot, shared)
	}
	h.angle += delta
	return nil
}

func (h *HingeJoint) solve(delta float64) (rotA, rotB, shared linalg.Matrix3x3, err error) {
	pos, rot := h.Position(), h.Orientation()
	ia := h.First.InertiaTensorAt(pos, rot)
	ib := h.Second.InertiaTensorAt(pos, rot)

	a := mat.NewDense(6, 6, []float64{
		ia[0][0], ia[0][1], ia[0][2], 0, -1, 0,
		ia[1][0], ia[1][1], ia[1][2], 0, 0, -1,
		ia[2][0], ia[2][1], ia[2][2], 0, 0, 0,
		ib[0][0], ib[0][1], 0, ib[0][2], -1, 0,
		ib[1][0], ib[1][1], 0, ib[1][2], 0, -1,
		ib[2][0], ib[2][1], 0, ib[2][2], 0, 0,
	})
	b := mat.NewVecDense(6, []float64{0, 0, 1, 0, 0, -1})

	var lu mat.LU
	lu.Factorize(a)
	if lu.Det() == 0 || lu.Cond() > mat.ConditionTolerance {
		return rotA, rotB, shared, fmt.Errorf("%w: singular hinge system", ErrDegenerateJoint)
	}
	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, b); err != nil {
		return rotA, rotB, shared, fmt.Errorf("%w: %v", ErrDegenerateJoint, err)
	}

	ax, ay, alphaA, alphaB := x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3)
	diff := alphaB - alphaA
	if diff == 0 || math.IsNaN(diff) || math.IsInf(diff, 0) {
		return rotA, rotB, shared, fmt.Errorf("%w: hinge differential %v", ErrDegenerateJoint, diff)
	}
	s := delta / diff

	toWorld := rot.Transpose()
	shared = linalg.FromAxis(toWorld.MulVec(linalg.Vector3{X: ax * s, Y: ay * s}))
	rotA = linalg.FromAxis(toWorld.MulVec(linalg.Vector3{Z: alphaA * s}))
	rotB = linalg.FromAxis(toWorld.MulVec(linalg.Vector3{Z: alphaB * s}))
	return rotA, rotB, shared, nil
}

// SetDrive makes TimeStep bend the hinge at rate rad/s, turning back
// whenever the next step would leave [lo, hi].
func (h *HingeJoint) SetDrive(rate, lo, hi float64) error {
	for _, v := range []float64{rate, lo, hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite parameter %v", ErrInvalidDrive, v)
		}
	}
	if lo >= hi {
		return fmt.Errorf("%w: limits [%v, %v] are empty", ErrInvalidDrive, lo, hi)
	}
	h.drive = drive{enabled: true, rate: rate, lo: lo, hi: hi}
	return nil
}

// DriveRate returns the current signed bend rate, zero when undriven.
func (h *HingeJoint) DriveRate() float64 { return h.drive.rate }

// TimeStep advances the drive by dt. An undriven hinge does not move.
func (h *HingeJoint) TimeStep(dt float64) error {
	if err := rigid.ValidateTimeStep(dt); err != nil {
		return err
	}
	if !h.drive.enabled || dt == 0 || h.drive.rate == 0 {
		return nil
	}

	delta := h.drive.rate * dt
	next := h.angle + delta
	if (delta > 0 && next > h.drive.hi) || (delta < 0 && next < h.drive.lo) {
		h.drive.rate = -h.drive.rate
		delta = -delta
	}
	return h.Bend(delta)
}

// The remaining methods make a hinge a rigid.Member. Its mass properties are
// the marker's; a bare hinge is massless and sits at the pivot.

func (h *HingeJoint) Translate(v linalg.Vector3) {
	h.Body.Translate(v)
	if h.marker != nil {
		h.marker.Translate(v)
	}
}

func (h *HingeJoint) Rotate(pivot linalg.Vector3, r linalg.Matrix3x3) {
	h.Body.Rotate(pivot, r)
	if h.marker != nil {
		h.marker.Rotate(pivot, r)
	}
}

// Reorthonormalize cleans up the pivot pose and the marker, which only ever
// move through Bend and Rotate.
func (h *HingeJoint) Reorthonormalize() error {
	if err := h.Body.Reorthonormalize(); err != nil {
		return err
	}
	if h.marker != nil {
		return h.marker.Reorthonormalize()
	}
	return nil
}

func (h *HingeJoint) Mass() float64 {
	if h.marker == nil {
		return 0
	}
	return h.marker.Mass()
}

func (h *HingeJoint) CenterOfMass() linalg.Vector3 {
	if h.marker == nil {
		return h.Position()
	}
	return h.marker.CenterOfMass()
}

func (h *HingeJoint) InertiaTensorAt(pos linalg.Vector3, rot linalg.Matrix3x3) linalg.Matrix3x3 {
	if h.marker == nil {
		return linalg.Zero()
	}
	return h.marker.InertiaTensorAt(pos, rot)
}

func (h *HingeJoint) Drawables() []rigid.Drawable {
	if h.marker == nil {
		return nil
	}
	return []rigid.Drawable{h.marker}
}
