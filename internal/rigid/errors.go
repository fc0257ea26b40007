package rigid

import (
	"errors"
	"math"

	"github.com/san-kum/airtime/internal/linalg"
)

var (
	// ErrInvalidConstruction indicates bad construction input: non-positive mass,
	// an empty aggregate or malformed geometry.
	ErrInvalidConstruction = errors.New("rigid: invalid construction")

	// ErrInvalidTimeStep indicates a negative or non-finite dt.
	ErrInvalidTimeStep = errors.New("rigid: time step must be finite and non-negative")

	// ErrDiverged indicates a step produced NaN or Inf.
	ErrDiverged = errors.New("rigid: state diverged (NaN or Inf detected)")

	// ErrSingularMatrix is returned when an inertia tensor cannot be inverted.
	ErrSingularMatrix = linalg.ErrSingularMatrix

	// ErrZeroVector is returned when a direction is taken from a zero vector.
	ErrZeroVector = linalg.ErrZeroVector
)

// ValidateTimeStep checks that dt is finite and non-negative.
func ValidateTimeStep(dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return ErrInvalidTimeStep
	}
	return nil
}
