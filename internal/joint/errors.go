package joint

import "errors"

var (
	// ErrDegenerateJoint indicates a bend whose linear system is singular or
	// whose hinge differential cannot be scaled.
	ErrDegenerateJoint = errors.New("joint: degenerate joint configuration")

	// ErrInvalidAngle indicates a non-finite bend angle.
	ErrInvalidAngle = errors.New("joint: bend angle must be finite")

	// ErrInvalidDrive indicates a drive with non-finite rate or empty limits.
	ErrInvalidDrive = errors.New("joint: invalid drive")

	// ErrNotImplemented is returned by joint kinds whose bend has no solver yet.
	ErrNotImplemented = errors.New("joint: not implemented")
)
