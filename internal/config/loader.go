package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override,
// e.g. TIMESLIP_REWIND_SPEED_MULTIPLIER.
const EnvPrefix = "TIMESLIP_"

// Load loads the timeslip configuration, applies environment overrides and
// validates the result.
// Search order: customPath -> ~/.timeslip/config.yaml -> ./configs/timeslip.yaml -> embedded default
func Load(customPath string) (TimeslipConfig, error) {
	cfg, err := loadYAML(customPath)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadYAML(customPath string) (TimeslipConfig, error) {
	// Fields missing from a partial file keep their defaults.
	cfg := DefaultTimeslipConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultTimeslipConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "timeslip.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultTimeslipConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTimeslipYAML, &cfg); err != nil {
		return DefaultTimeslipConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any TIMESLIP_* variables that are set.
func ApplyEnv(cfg *TimeslipConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML, for `timeslip config`.
func Marshal(cfg TimeslipConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".timeslip", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *TimeslipConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust survivability based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Player.Health = 5
		cfg.Player.ManaDrain *= 0.6
		cfg.Slime.ChaseSpeed *= 0.8
	case DifficultyHard:
		cfg.Player.Health = 2
		cfg.Player.ManaDrain *= 1.5
		cfg.Player.ManaRegen *= 0.5
	}
}
