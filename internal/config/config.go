package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultScene    = "gymnast"
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultBendRate = -1.0
	DefaultDistance = 20.0
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scene    string        `yaml:"scene"`
	Dt       float64       `yaml:"dt"`
	Duration float64       `yaml:"duration"`
	Gymnast  GymnastConfig `yaml:"gymnast"`
	Spinner  SpinnerConfig `yaml:"spinner"`
	Camera   CameraConfig  `yaml:"camera"`
}

// GymnastConfig drives the hinge between trunk and limb. Angles are radians,
// the rate is radians per second.
type GymnastConfig struct {
	StartAngle float64 `yaml:"start_angle"`
	BendRate   float64 `yaml:"bend_rate"`
	MinAngle   float64 `yaml:"min_angle"`
	MaxAngle   float64 `yaml:"max_angle"`

	Servo ServoConfig `yaml:"servo"`
}

// ServoConfig holds the hinge at Target with a PID loop in place of the
// constant-rate drive. MaxRate caps the commanded rate; zero leaves it free.
type ServoConfig struct {
	Enabled bool    `yaml:"enabled"`
	Target  float64 `yaml:"target"`
	Kp      float64 `yaml:"kp"`
	Ki      float64 `yaml:"ki"`
	Kd      float64 `yaml:"kd"`
	MaxRate float64 `yaml:"max_rate"`
}

// SpinnerConfig describes a free cuboid: its edge lengths and initial
// angular velocity.
type SpinnerConfig struct {
	Dims  [3]float64 `yaml:"dims,flow"`
	Omega [3]float64 `yaml:"omega,flow"`
}

type CameraConfig struct {
	Azimuth   float64 `yaml:"azimuth"`
	Elevation float64 `yaml:"elevation"`
	Distance  float64 `yaml:"distance"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:    DefaultScene,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gymnast: GymnastConfig{
			StartAngle: math.Pi / 2,
			BendRate:   DefaultBendRate,
			MinAngle:   0,
			MaxAngle:   math.Pi / 2,
		},
		Spinner: SpinnerConfig{
			Dims:  [3]float64{1, 2, 3},
			Omega: [3]float64{0, 0, 2},
		},
		Camera: CameraConfig{Distance: DefaultDistance},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values every scene relies on.
func (c *Config) Validate() error {
	if c.Scene == "" {
		return fmt.Errorf("%w: scene is empty", ErrInvalidConfig)
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	}
	if c.Duration < c.Dt {
		return fmt.Errorf("%w: duration %v is shorter than one step", ErrInvalidConfig, c.Duration)
	}

	g := c.Gymnast
	if !(g.MinAngle < g.MaxAngle) {
		return fmt.Errorf("%w: gymnast angle limits [%v, %v] are empty", ErrInvalidConfig, g.MinAngle, g.MaxAngle)
	}
	if !finite(g.BendRate, g.StartAngle, g.MinAngle, g.MaxAngle) {
		return fmt.Errorf("%w: gymnast parameters must be finite", ErrInvalidConfig)
	}
	if sv := g.Servo; sv.Enabled {
		if !finite(sv.Target, sv.Kp, sv.Ki, sv.Kd, sv.MaxRate) {
			return fmt.Errorf("%w: servo parameters must be finite", ErrInvalidConfig)
		}
		if sv.Target < g.MinAngle || sv.Target > g.MaxAngle {
			return fmt.Errorf("%w: servo target %v outside [%v, %v]", ErrInvalidConfig, sv.Target, g.MinAngle, g.MaxAngle)
		}
		if sv.MaxRate < 0 {
			return fmt.Errorf("%w: servo max rate must not be negative, got %v", ErrInvalidConfig, sv.MaxRate)
		}
	}

	for i, d := range c.Spinner.Dims {
		if !(d > 0) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: spinner dimension %d must be positive, got %v", ErrInvalidConfig, i, d)
		}
	}
	if !finite(c.Spinner.Omega[:]...) {
		return fmt.Errorf("%w: spinner omega must be finite", ErrInvalidConfig)
	}

	if !(c.Camera.Distance > 0) {
		return fmt.Errorf("%w: camera distance must be positive, got %v", ErrInvalidConfig, c.Camera.Distance)
	}
	return nil
}

// Steps is the number of whole time steps in Duration.
func (c *Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
