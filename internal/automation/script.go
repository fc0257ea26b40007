// Package automation runs scripted sequences of simulations from YAML.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/metrics"
	"github.com/san-kum/airtime/internal/scene"
	"github.com/san-kum/airtime/internal/sim"
	"github.com/san-kum/airtime/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScript = errors.New("automation: script has no steps")

// Script is a named list of runs.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. Zero Dt or Duration keeps the preset's value.
type Step struct {
	Scene    string  `yaml:"scene"`
	Preset   string  `yaml:"preset"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Save     bool    `yaml:"save"`
}

func (s Step) Label() string {
	if s.Preset == "" {
		return s.Scene
	}
	return s.Scene + "/" + s.Preset
}

// StepResult reports one finished step. RunID is empty unless the step
// was saved.
type StepResult struct {
	Step    Step
	RunID   string
	Steps   int
	Metrics map[string]float64
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(script.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	return &script, nil
}

// Config resolves the step into a validated configuration.
func (s Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Scene, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Label())
		}
	}
	cfg.Scene = s.Scene
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScript executes the steps in order and stops at the first failure.
// Progress goes to out. store may be nil when no step saves.
func RunScript(ctx context.Context, script *Script, registry *scene.Registry, store *storage.Store, out io.Writer) ([]StepResult, error) {
	if len(script.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		fmt.Fprintf(out, "Running step %d/%d: %s\n", i+1, len(script.Steps), step.Label())

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		sc, err := registry.Build(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		s := sim.New(sc)
		for _, m := range metrics.ForScene(sc) {
			s.AddMetric(m)
		}
		run := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true}
		result, err := s.Run(ctx, run)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Steps: result.StepsTaken, Metrics: result.Metrics}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			sr.RunID, err = store.Save(cfg.Scene, step.Preset, cfg.Dt, cfg.Duration, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
