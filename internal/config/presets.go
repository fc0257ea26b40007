package config

import (
	"math"
	"sort"
)

var Presets = map[string]map[string]*Config{
	"gymnast": {
		"hold": preset(func(c *Config) {
			c.Scene = "gymnast"
			c.Duration = 10
			c.Gymnast = GymnastConfig{
				StartAngle: math.Pi / 2,
				MinAngle:   0,
				MaxAngle:   math.Pi / 2,
				Servo:      ServoConfig{Enabled: true, Target: math.Pi / 4, Kp: 4, Ki: 0.5, MaxRate: 1},
			}
		}),
		"pike": preset(func(c *Config) {
			c.Scene = "gymnast"
			c.Duration = 10
			c.Gymnast = GymnastConfig{StartAngle: math.Pi / 2, BendRate: -1, MinAngle: 0, MaxAngle: math.Pi / 2}
		}),
		"tuck": preset(func(c *Config) {
			c.Scene = "gymnast"
			c.Duration = 8
			c.Gymnast = GymnastConfig{StartAngle: math.Pi / 2, BendRate: -2, MinAngle: -math.Pi / 4, MaxAngle: math.Pi / 2}
		}),
		"wave": preset(func(c *Config) {
			c.Scene = "gymnast"
			c.Dt = 0.005
			c.Duration = 12
			c.Gymnast = GymnastConfig{StartAngle: math.Pi / 2, BendRate: 0.5, MinAngle: math.Pi / 4, MaxAngle: 3 * math.Pi / 4}
		}),
	},
	"spinner": {
		"stable": preset(func(c *Config) {
			c.Scene = "spinner"
			c.Duration = 20
			c.Spinner = SpinnerConfig{Dims: [3]float64{1, 2, 3}, Omega: [3]float64{0.01, 0.01, 2}}
		}),
		"tennis_racket": preset(func(c *Config) {
			c.Scene = "spinner"
			c.Dt = 0.001
			c.Duration = 30
			c.Spinner = SpinnerConfig{Dims: [3]float64{1, 2, 3}, Omega: [3]float64{0.01, 2, 0.01}}
		}),
		"sphere": preset(func(c *Config) {
			c.Scene = "spinner"
			c.Duration = 10
			c.Spinner = SpinnerConfig{Dims: [3]float64{2, 2, 2}, Omega: [3]float64{0.5, -1, 1.5}}
		}),
	},
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListScenes() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
