package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/scene"
)

var ErrInvalidConfig = errors.New("sim: invalid run configuration")

// Pose is a snapshot of one body.
type Pose struct {
	Name        string
	Position    linalg.Vector3
	Orientation linalg.Matrix3x3
}

func (p Pose) IsValid() bool {
	if !p.Position.IsFinite() {
		return false
	}
	for i := 0; i < 3; i++ {
		if !p.Orientation.Row(i).IsFinite() {
			return false
		}
	}
	return true
}

type Sample struct {
	Time  float64
	Poses []Pose
}

func (s Sample) IsValid() bool {
	for _, p := range s.Poses {
		if !p.IsValid() {
			return false
		}
	}
	return true
}

// Capture records the current pose of every body in sc.
func Capture(sc scene.Scene, t float64) Sample {
	bodies := sc.Bodies()
	s := Sample{Time: t, Poses: make([]Pose, len(bodies))}
	for i, nb := range bodies {
		s.Poses[i] = Pose{Name: nb.Name, Position: nb.Body.Position(), Orientation: nb.Body.Orientation()}
	}
	return s
}

type Metric interface {
	Name() string
	Observe(sc scene.Scene, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(sc scene.Scene, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
	// Reorthonormalize every n steps; zero disables it.
	Reorthonormalize int
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}

// Times returns the sample times.
func (r *Result) Times() []float64 {
	ts := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		ts[i] = s.Time
	}
	return ts
}

// SimError locates a failure inside a run.
type SimError struct {
	Step int
	Time float64
	Err  error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *SimError) Unwrap() error { return e.Err }
