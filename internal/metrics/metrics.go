// Package metrics summarizes simulation runs.
package metrics

import (
	"github.com/san-kum/airtime/internal/scene"
	"github.com/san-kum/airtime/internal/sim"
)

// ForScene returns the metrics that apply to sc.
func ForScene(sc scene.Scene) []sim.Metric {
	ms := []sim.Metric{NewOrthonormality()}
	if _, ok := sc.(scene.Spinning); ok {
		ms = append(ms, NewEnergy(), NewEnergyDrift(), NewMomentumDrift())
	}
	if _, ok := sc.(scene.Hinged); ok {
		ms = append(ms, NewPivotSeparation(), NewHingeTravel())
	}
	if sv, ok := sc.(scene.Servoed); ok {
		if _, on := sv.Setpoint(); on {
			ms = append(ms, NewHoldError())
		}
	}
	return ms
}
