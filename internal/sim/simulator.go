package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/airtime/internal/rigid"
	"github.com/san-kum/airtime/internal/scene"
)

// Simulator advances one scene. It is not safe for concurrent use; run
// independent scenes on independent simulators instead.
type Simulator struct {
	scene     scene.Scene
	metrics   []Metric
	observers []Observer
}

func New(sc scene.Scene) *Simulator {
	return &Simulator{
		scene:     sc,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) Scene() scene.Scene     { return s.scene }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps the scene for cfg.Duration and records a sample per step. On
// failure the partial result is returned along with the error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	s.observe(0)
	result.Samples = append(result.Samples, Capture(s.scene, 0))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		t := float64(i+1) * cfg.Dt
		if err := s.step(i, t, cfg); err != nil {
			s.collect(result)
			return result, err
		}
		result.StepsTaken++

		sample := Capture(s.scene, t)
		if cfg.ValidateState && !sample.IsValid() {
			s.collect(result)
			return result, &SimError{Step: i, Time: t, Err: rigid.ErrDiverged}
		}
		result.Samples = append(result.Samples, sample)
		s.observe(t)
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback steps the scene until the duration elapses or callback
// returns false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(sc scene.Scene, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := stepCount(cfg)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.scene, float64(i)*cfg.Dt) {
			return nil
		}

		t := float64(i+1) * cfg.Dt
		if err := s.step(i, t, cfg); err != nil {
			return err
		}
		if cfg.ValidateState && !Capture(s.scene, t).IsValid() {
			return &SimError{Step: i, Time: t, Err: rigid.ErrDiverged}
		}
	}
	return nil
}

func (s *Simulator) step(i int, t float64, cfg Config) error {
	if err := s.scene.TimeStep(cfg.Dt); err != nil {
		return &SimError{Step: i, Time: t, Err: err}
	}
	if cfg.Reorthonormalize > 0 && (i+1)%cfg.Reorthonormalize == 0 {
		for _, nb := range s.scene.Bodies() {
			if err := nb.Body.Reorthonormalize(); err != nil {
				return &SimError{Step: i, Time: t, Err: fmt.Errorf("reorthonormalize %s: %w", nb.Name, err)}
			}
		}
		if h, ok := s.scene.(scene.Hinged); ok {
			if err := h.Hinge().Reorthonormalize(); err != nil {
				return &SimError{Step: i, Time: t, Err: fmt.Errorf("reorthonormalize hinge: %w", err)}
			}
		}
	}
	return nil
}

func (s *Simulator) observe(t float64) {
	for _, m := range s.metrics {
		m.Observe(s.scene, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.scene, t)
	}
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Reorthonormalize < 0 {
		return fmt.Errorf("%w: reorthonormalize interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

func stepCount(cfg Config) int {
	return int(math.Round(cfg.Duration / cfg.Dt))
}
