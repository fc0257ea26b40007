package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/scene"
)

func TestHingeMetrics(t *testing.T) {
	g, err := scene.NewGymnast(config.DefaultConfig().Gymnast)
	if err != nil {
		t.Fatalf("NewGymnast failed: %v", err)
	}
	sep, travel, ortho := NewPivotSeparation(), NewHingeTravel(), NewOrthonormality()

	observe := func(tm float64) {
		sep.Observe(g, tm)
		travel.Observe(g, tm)
		ortho.Observe(g, tm)
	}

	observe(0)
	for i := 1; i <= 100; i++ {
		if err := g.TimeStep(0.01); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		observe(float64(i) * 0.01)
	}

	if sep.Value() > 1e-9 {
		t.Errorf("pivot separation drifted by %g", sep.Value())
	}
	if got := travel.Value(); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected 1 rad of travel, got %v", got)
	}
	if ortho.Value() > 1e-12 {
		t.Errorf("orthonormality drift %g", ortho.Value())
	}

	travel.Reset()
	if travel.Value() != 0 {
		t.Error("expected zero travel after reset")
	}
}

func TestHoldError(t *testing.T) {
	cfg := config.DefaultConfig().Gymnast
	cfg.StartAngle = 1
	cfg.Servo = config.ServoConfig{Enabled: true, Target: 1, Kp: 4}
	g, err := scene.NewGymnast(cfg)
	if err != nil {
		t.Fatalf("NewGymnast failed: %v", err)
	}
	h := NewHoldError()
	h.Observe(g, 0)
	for i := 1; i <= 50; i++ {
		if err := g.TimeStep(0.02); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		h.Observe(g, float64(i)*0.02)
	}
	if h.Value() != 0 {
		t.Errorf("servo at its setpoint accumulated error %v", h.Value())
	}

	if err := g.Bend(-0.5); err != nil {
		t.Fatalf("Bend failed: %v", err)
	}
	h.Reset()
	h.Observe(g, 0)
	h.Observe(g, 0.1)
	if got := h.Value(); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("hold error = %v, want 0.05", got)
	}

	undriven, err := scene.NewGymnast(config.DefaultConfig().Gymnast)
	if err != nil {
		t.Fatalf("NewGymnast failed: %v", err)
	}
	h.Reset()
	h.Observe(undriven, 0)
	h.Observe(undriven, 1)
	if h.Value() != 0 {
		t.Errorf("gymnast without servo accumulated %v", h.Value())
	}
}

func TestForScene(t *testing.T) {
	tests := []struct {
		scene  string
		preset string
		want   int
	}{
		{"gymnast", "", 3},
		{"gymnast", "hold", 4},
		{"spinner", "", 4},
	}

	r := scene.NewRegistry()
	for _, tt := range tests {
		cfg := config.DefaultConfig()
		if tt.preset != "" {
			cfg = config.GetPreset(tt.scene, tt.preset)
		}
		cfg.Scene = tt.scene
		sc, err := r.Build(cfg)
		if err != nil {
			t.Fatalf("%s: %v", tt.scene, err)
		}
		if got := len(ForScene(sc)); got != tt.want {
			t.Errorf("%s: expected %d metrics, got %d", tt.scene, tt.want, got)
		}
	}
}
