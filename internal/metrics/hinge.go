package metrics

import (
	"math"

	"github.com/san-kum/airtime/internal/scene"
)

// PivotSeparation is the largest change in distance between the hinge pivot
// and either hinged body. A rigid hinge keeps it at zero.
type PivotSeparation struct {
	name     string
	initial  [2]float64
	maxDrift float64
	samples  int
}

func NewPivotSeparation() *PivotSeparation {
	return &PivotSeparation{name: "pivot_separation"}
}

func (p *PivotSeparation) Name() string {
	return p.name
}

func (p *PivotSeparation) Observe(sc scene.Scene, t float64) {
	hs, ok := sc.(scene.Hinged)
	if !ok {
		return
	}
	h := hs.Hinge()
	pivot := h.Position()
	d := [2]float64{
		h.First.Position().Sub(pivot).Length(),
		h.Second.Position().Sub(pivot).Length(),
	}

	if p.samples == 0 {
		p.initial = d
	}
	p.samples++

	for i := range d {
		p.maxDrift = math.Max(p.maxDrift, math.Abs(d[i]-p.initial[i]))
	}
}

func (p *PivotSeparation) Value() float64 {
	return p.maxDrift
}

func (p *PivotSeparation) Reset() {
	p.initial = [2]float64{}
	p.maxDrift = 0
	p.samples = 0
}

// HingeTravel is the total absolute angle swept by the hinge.
type HingeTravel struct {
	name    string
	last    float64
	sum     float64
	samples int
}

func NewHingeTravel() *HingeTravel {
	return &HingeTravel{name: "hinge_travel"}
}

func (h *HingeTravel) Name() string {
	return h.name
}

func (h *HingeTravel) Observe(sc scene.Scene, t float64) {
	hs, ok := sc.(scene.Hinged)
	if !ok {
		return
	}
	angle := hs.Hinge().Angle()
	if h.samples > 0 {
		h.sum += math.Abs(angle - h.last)
	}
	h.last = angle
	h.samples++
}

func (h *HingeTravel) Value() float64 {
	return h.sum
}

func (h *HingeTravel) Reset() {
	h.last = 0
	h.sum = 0
	h.samples = 0
}

// HoldError integrates |angle - setpoint| over time for a servoed hinge.
// Lower is a tighter hold.
type HoldError struct {
	name    string
	lastT   float64
	sum     float64
	samples int
}

func NewHoldError() *HoldError {
	return &HoldError{name: "hold_error"}
}

func (h *HoldError) Name() string {
	return h.name
}

func (h *HoldError) Observe(sc scene.Scene, t float64) {
	hs, ok := sc.(scene.Hinged)
	if !ok {
		return
	}
	sv, ok := sc.(scene.Servoed)
	if !ok {
		return
	}
	target, on := sv.Setpoint()
	if !on {
		return
	}
	if h.samples > 0 {
		h.sum += math.Abs(hs.Hinge().Angle()-target) * (t - h.lastT)
	}
	h.lastT = t
	h.samples++
}

func (h *HoldError) Value() float64 {
	return h.sum
}

func (h *HoldError) Reset() {
	h.lastT = 0
	h.sum = 0
	h.samples = 0
}
