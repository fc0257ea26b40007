package control

import "math"

// PID drives one measured quantity, such as a hinge angle, towards Target.
// Its output is a rate in the quantity's units per second.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	// Limit bounds the output magnitude; zero leaves it unbounded.
	Limit    float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Compute returns the command for a measurement taken at time t. The first
// call is proportional only. The integral stops growing while the output is
// saturated.
func (p *PID) Compute(measured, t float64) float64 {
	err := p.Target - measured

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.clamp(p.Kp * err)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.clamp(p.Kp * err)
	}

	integral := p.integral + err*dt
	derivative := (err - p.prevErr) / dt
	u := p.Kp*err + p.Ki*integral + p.Kd*derivative

	p.prevErr = err
	p.prevT = t
	if out := p.clamp(u); out != u {
		return out
	}
	p.integral = integral
	return u
}

func (p *PID) clamp(u float64) float64 {
	if p.Limit > 0 && math.Abs(u) > p.Limit {
		return math.Copysign(p.Limit, u)
	}
	return u
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}
