package metrics

import (
	"math"

	"github.com/san-kum/airtime/internal/scene"
)

// Orthonormality tracks the worst deviation of any body orientation from a
// true rotation, max |RᵗR − 1| over all entries.
type Orthonormality struct {
	name     string
	maxDrift float64
}

func NewOrthonormality() *Orthonormality {
	return &Orthonormality{name: "orthonormality_drift"}
}

func (o *Orthonormality) Name() string {
	return o.name
}

func (o *Orthonormality) Observe(sc scene.Scene, t float64) {
	for _, nb := range sc.Bodies() {
		o.maxDrift = math.Max(o.maxDrift, nb.Body.Orientation().OrthonormalDrift())
	}
}

func (o *Orthonormality) Value() float64 {
	return o.maxDrift
}

func (o *Orthonormality) Reset() {
	o.maxDrift = 0
}
