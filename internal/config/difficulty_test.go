package config

import (
	"math"
	"testing"
)

func TestDifficultyLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 100},
		Scaling:      ScalingConfig{EnemySpeed: 1, ManaDrain: 0.5, DetectRange: 4},
	}

	tests := []struct {
		name     string
		mutate   func(*DifficultyConfig)
		score    int
		steps    int
		expected float64
	}{
		{name: "start", expected: 0.2},
		{name: "halfway", steps: 50, expected: 0.6},
		{name: "clamped", steps: 500, expected: 1.0},
		{name: "disabled", steps: 50, mutate: func(c *DifficultyConfig) { c.Enabled = false }, expected: 0.2},
		{name: "none", steps: 50, mutate: func(c *DifficultyConfig) { c.Progression.Type = "none" }, expected: 0.2},
		{name: "score", score: 25, mutate: func(c *DifficultyConfig) { c.Progression.Type = "score" }, expected: 0.4},
		{name: "zero max", steps: 1, mutate: func(c *DifficultyConfig) { c.Progression.MaxAt = 0 }, expected: 1.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			if tc.mutate != nil {
				tc.mutate(&c)
			}
			d := NewDifficultyManager(c)
			if got := d.Level(tc.score, tc.steps); math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Level() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestDifficultyScaling(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{EnemySpeed: 1, ManaDrain: 0.5, DetectRange: 4},
	})

	if got := d.EnemySpeed(2, 100, 0); got != 4 {
		t.Errorf("EnemySpeed() = %v, expected 4", got)
	}
	if got := d.ManaDrain(20, 50, 0); got != 25 {
		t.Errorf("ManaDrain() = %v, expected 25", got)
	}
	if got := d.DetectRange(8, 0, 0); got != 8 {
		t.Errorf("DetectRange() at level 0 = %v, expected 8", got)
	}

	d.SetEnabled(false)
	if d.IsEnabled() {
		t.Error("IsEnabled() after SetEnabled(false)")
	}
	d.SetInitialLevel(3)
	if got := d.Level(0, 0); got != 1 {
		t.Errorf("SetInitialLevel clamps to 1, got %v", got)
	}
}
