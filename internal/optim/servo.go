package optim

import (
	"context"
	"fmt"

	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/metrics"
	"github.com/san-kum/airtime/internal/scene"
	"github.com/san-kum/airtime/internal/sim"
)

// Gain names accepted by ServoObjective.
const (
	Kp = "kp"
	Ki = "ki"
	Kd = "kd"
)

// ServoObjective scores PID gains by the hold error of a gymnast run that
// starts from base. Gains missing from params keep their value in base.
func ServoObjective(base config.GymnastConfig, run sim.Config) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base
		cfg.Servo.Enabled = true
		for name, v := range params {
			switch name {
			case Kp:
				cfg.Servo.Kp = v
			case Ki:
				cfg.Servo.Ki = v
			case Kd:
				cfg.Servo.Kd = v
			default:
				return 0, fmt.Errorf("optim: unknown gain %q", name)
			}
		}

		g, err := scene.NewGymnast(cfg)
		if err != nil {
			return 0, err
		}
		hold := metrics.NewHoldError()
		s := sim.New(g)
		s.AddMetric(hold)
		if _, err := s.Run(ctx, run); err != nil {
			return 0, err
		}
		return hold.Value(), nil
	}
}

// TuneServo grid-searches the gains of base's servo.
func TuneServo(ctx context.Context, base config.GymnastConfig, run sim.Config, kp, ki, kd []float64) (*Result, error) {
	g, err := NewGridSearch([]string{Kp, Ki, Kd}, [][]float64{kp, ki, kd})
	if err != nil {
		return nil, err
	}
	return g.Search(ctx, ServoObjective(base, run))
}
