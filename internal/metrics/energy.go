package metrics

import (
	"math"

	"github.com/san-kum/airtime/internal/scene"
)

// Energy is the mean rotational kinetic energy of a spinning scene.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(sc scene.Scene, t float64) {
	sp, ok := sc.(scene.Spinning)
	if !ok {
		return
	}
	e.totalEnergy += sp.Rotor().KineticEnergy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of rotational kinetic energy
// from its first observed value. Torque-free motion conserves it exactly, so
// any drift is integration error.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sc scene.Scene, t float64) {
	sp, ok := sc.(scene.Spinning)
	if !ok {
		return
	}

	energy := sp.Rotor().KineticEnergy()
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift is the largest relative change of |L|.
type MomentumDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(sc scene.Scene, t float64) {
	sp, ok := sc.(scene.Spinning)
	if !ok {
		return
	}

	l := sp.Rotor().AngularMomentum().Length()
	if m.samples == 0 {
		m.initial = l
	}
	m.samples++

	if m.initial != 0 {
		m.maxDrift = math.Max(m.maxDrift, math.Abs(l-m.initial)/m.initial)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}
