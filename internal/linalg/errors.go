package linalg

import "errors"

var (
	// ErrSingularMatrix indicates an inverse was requested for a matrix with zero determinant.
	ErrSingularMatrix = errors.New("linalg: singular matrix")

	// ErrZeroVector indicates a direction was requested from a zero-length vector.
	ErrZeroVector = errors.New("linalg: zero-length vector")

	// ErrDivisionByZero indicates a scalar or quaternion division by zero.
	ErrDivisionByZero = errors.New("linalg: division by zero")
)
