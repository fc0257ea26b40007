package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/scene"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a free
// spinner by the trajectory separation method:
//
//	λ ≈ (1/t) * ln(|δω(t)|/|δω(0)|)
//
// Two spinners are built from cfg, the second with its initial angular
// velocity nudged by perturbation along the body x axis. Spin about the
// intermediate principal axis gives a clearly positive value; spin about
// the major or minor axis stays near zero.
func LyapunovExponent(cfg config.SpinnerConfig, dt, duration, perturbation float64) (float64, error) {
	return lyapunovForPerturbation(cfg, 0, dt, duration, perturbation)
}

// LyapunovSpectrum perturbs each component of ω in turn.
func LyapunovSpectrum(cfg config.SpinnerConfig, dt, duration, perturbation float64) ([3]float64, error) {
	var spectrum [3]float64
	for i := range spectrum {
		l, err := lyapunovForPerturbation(cfg, i, dt, duration, perturbation)
		if err != nil {
			return spectrum, err
		}
		spectrum[i] = l
	}
	return spectrum, nil
}

func lyapunovForPerturbation(cfg config.SpinnerConfig, axis int, dt, duration, d0 float64) (float64, error) {
	if !(dt > 0) || !(duration >= dt) || !(d0 > 0) || math.IsInf(duration, 0) {
		return 0, fmt.Errorf("analysis: lyapunov needs 0 < dt <= duration and a positive perturbation, got dt=%v duration=%v perturbation=%v", dt, duration, d0)
	}

	base, err := scene.NewSpinner(cfg)
	if err != nil {
		return 0, err
	}
	nudged := cfg
	nudged.Omega[axis] += d0
	other, err := scene.NewSpinner(nudged)
	if err != nil {
		return 0, err
	}

	steps := int(math.Round(duration / dt))
	for i := 0; i < steps; i++ {
		if err := base.TimeStep(dt); err != nil {
			return 0, fmt.Errorf("step %d: %w", i, err)
		}
		if err := other.TimeStep(dt); err != nil {
			return 0, fmt.Errorf("step %d: %w", i, err)
		}
	}

	sep := separation(base.Rotor().AngularVelocity(), other.Rotor().AngularVelocity())
	if sep == 0 {
		return 0, nil
	}
	return math.Log(sep/d0) / (float64(steps) * dt), nil
}

func separation(a, b linalg.Vector3) float64 {
	return b.Sub(a).Length()
}
