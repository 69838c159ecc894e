package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoadEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != DefaultTimeslipConfig() {
		t.Errorf("embedded YAML differs from DefaultTimeslipConfig():\n%+v\n%+v", cfg, DefaultTimeslipConfig())
	}
}

func TestLoadSearchOrder(t *testing.T) {
	isolate(t)

	home, _ := os.UserHomeDir()
	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "timeslip.yaml"), []byte("rewind:\n  speed_multiplier: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Rewind.SpeedMultiplier != 3 {
		t.Errorf("SpeedMultiplier = %v, expected 3 from ./configs", cfg.Rewind.SpeedMultiplier)
	}
	if cfg.Rewind.HistorySeconds != 5 {
		t.Errorf("HistorySeconds = %v, expected default 5 for a partial file", cfg.Rewind.HistorySeconds)
	}

	userDir := filepath.Join(home, ".timeslip")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte("rewind:\n  speed_multiplier: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Rewind.SpeedMultiplier != 2 {
		t.Errorf("SpeedMultiplier = %v, expected 2 from home config", cfg.Rewind.SpeedMultiplier)
	}

	custom := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(custom, []byte("rewind:\n  speed_multiplier: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(custom)
	if err != nil {
		t.Fatalf("Load(custom) error: %v", err)
	}
	if cfg.Rewind.SpeedMultiplier != 4 {
		t.Errorf("SpeedMultiplier = %v, expected 4 from custom path", cfg.Rewind.SpeedMultiplier)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom path should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("rewind: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load() of malformed YAML should fail")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("rewind:\n  history_seconds: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(invalid)
	if err == nil || !strings.Contains(err.Error(), "history_seconds") {
		t.Errorf("Load() error = %v, expected history_seconds validation failure", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TIMESLIP_REWIND_SPEED_MULTIPLIER", "2.5")
	t.Setenv("TIMESLIP_REWIND_INPUT", "toggle")
	t.Setenv("TIMESLIP_PLAYER_HEALTH", "7")
	t.Setenv("TIMESLIP_DIFFICULTY_PROGRESSION_TYPE", "score")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Rewind.SpeedMultiplier != 2.5 {
		t.Errorf("SpeedMultiplier = %v, expected 2.5", cfg.Rewind.SpeedMultiplier)
	}
	if cfg.Rewind.Input != InputToggle {
		t.Errorf("Input = %q, expected toggle", cfg.Rewind.Input)
	}
	if cfg.Player.Health != 7 {
		t.Errorf("Health = %d, expected 7", cfg.Player.Health)
	}
	if cfg.Difficulty.Progression.Type != "score" {
		t.Errorf("Progression.Type = %q, expected score", cfg.Difficulty.Progression.Type)
	}
	if cfg.Rewind.HistorySeconds != 5 {
		t.Errorf("unset variable changed HistorySeconds to %v", cfg.Rewind.HistorySeconds)
	}
}

func TestEnvOverrideBadValue(t *testing.T) {
	isolate(t)
	t.Setenv("TIMESLIP_REWIND_HISTORY_SECONDS", "lots")

	if _, err := Load(""); err == nil {
		t.Error("Load() should reject an unparsable env value")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TimeslipConfig)
		ok     bool
	}{
		{"defaults", func(*TimeslipConfig) {}, true},
		{"zero history", func(c *TimeslipConfig) { c.Rewind.HistorySeconds = 0 }, false},
		{"negative rate", func(c *TimeslipConfig) { c.Rewind.SamplesPerSecond = -1 }, false},
		{"zero speed", func(c *TimeslipConfig) { c.Rewind.SpeedMultiplier = 0 }, false},
		{"unknown input", func(c *TimeslipConfig) { c.Rewind.Input = "tap" }, false},
		{"toggle input", func(c *TimeslipConfig) { c.Rewind.Input = InputToggle }, true},
		{"no health", func(c *TimeslipConfig) { c.Player.Health = 0 }, false},
		{"negative drain", func(c *TimeslipConfig) { c.Player.ManaDrain = -1 }, false},
		{"zero step rate", func(c *TimeslipConfig) { c.Physics.StepRate = 0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultTimeslipConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tc.ok {
				t.Errorf("Validate() error = %v, expected ok=%v", err, tc.ok)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
		health  int
	}{
		{DifficultyEasy, true, 0.0, 5},
		{DifficultyNormal, true, 0.3, 3},
		{DifficultyHard, true, 0.7, 2},
		{DifficultyFixed, false, 0.0, 3},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultTimeslipConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.level {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Difficulty.InitialLevel, tc.level)
			}
			if cfg.Player.Health != tc.health {
				t.Errorf("Health = %d, expected %d", cfg.Player.Health, tc.health)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	for _, s := range []string{"", "easy", "normal", "hard", "fixed"} {
		if _, err := ParsePreset(s); err != nil {
			t.Errorf("ParsePreset(%q) error: %v", s, err)
		}
	}
	if p, _ := ParsePreset(""); p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, expected normal", p)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset(nightmare) should fail")
	}
}

func TestMarshalRoundTripsThroughLoad(t *testing.T) {
	isolate(t)

	cfg := DefaultTimeslipConfig()
	cfg.Slime.Points = 75
	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dump.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != cfg {
		t.Errorf("Load(Marshal(cfg)) = %+v, expected %+v", got, cfg)
	}
}
