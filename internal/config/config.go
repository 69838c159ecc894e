// Package config provides YAML-based game configuration loading and
// difficulty management for timeslip.
package config

import (
	"errors"
	"fmt"
)

// TimeslipConfig contains all configuration for the platformer and its
// rewind engine.
type TimeslipConfig struct {
	Rewind     RewindConfig     `yaml:"rewind"     envPrefix:"REWIND_"`
	Physics    PhysicsConfig    `yaml:"physics"    envPrefix:"PHYSICS_"`
	Player     PlayerConfig     `yaml:"player"     envPrefix:"PLAYER_"`
	Slime      SlimeConfig      `yaml:"slime"      envPrefix:"SLIME_"`
	Difficulty DifficultyConfig `yaml:"difficulty" envPrefix:"DIFFICULTY_"`
}

// RewindConfig controls how much history is recorded and how fast it plays
// back.
type RewindConfig struct {
	HistorySeconds   float64 `yaml:"history_seconds"    env:"HISTORY_SECONDS"`
	SamplesPerSecond int     `yaml:"samples_per_second" env:"SAMPLES_PER_SECOND"`
	SpeedMultiplier  float64 `yaml:"speed_multiplier"   env:"SPEED_MULTIPLIER"`
	Input            string  `yaml:"input"              env:"INPUT"`          // "hold" or "toggle"
	HoldWindowMs     int     `yaml:"hold_window_ms"     env:"HOLD_WINDOW_MS"` // Key-repeat gap still counted as held
}

// Rewind input modes.
const (
	InputHold   = "hold"
	InputToggle = "toggle"
)

// PhysicsConfig defines world physics. Units are tiles and seconds.
type PhysicsConfig struct {
	StepRate     float64 `yaml:"step_rate"      env:"STEP_RATE"` // Fixed steps per second
	Gravity      float64 `yaml:"gravity"        env:"GRAVITY"`
	MaxFallSpeed float64 `yaml:"max_fall_speed" env:"MAX_FALL_SPEED"`
}

// PlayerConfig defines player movement, health and mana.
type PlayerConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"     env:"MOVE_SPEED"`
	Acceleration  float64 `yaml:"acceleration"   env:"ACCELERATION"`
	JumpSpeed     float64 `yaml:"jump_speed"     env:"JUMP_SPEED"`
	Health        int     `yaml:"health"         env:"HEALTH"`
	InvulnSeconds float64 `yaml:"invuln_seconds" env:"INVULN_SECONDS"`
	AttackSeconds float64 `yaml:"attack_seconds" env:"ATTACK_SECONDS"`
	AttackReach   float64 `yaml:"attack_reach"   env:"ATTACK_REACH"`

	MaxMana   float64 `yaml:"max_mana"   env:"MAX_MANA"`
	ManaDrain float64 `yaml:"mana_drain" env:"MANA_DRAIN"` // Per second of rewind
	ManaRegen float64 `yaml:"mana_regen" env:"MANA_REGEN"` // Per second of live play
	OrbMana   float64 `yaml:"orb_mana"   env:"ORB_MANA"`
	OrbPoints int     `yaml:"orb_points" env:"ORB_POINTS"`
}

// SlimeConfig defines slime enemy behaviour.
type SlimeConfig struct {
	PatrolSpeed   float64 `yaml:"patrol_speed"   env:"PATROL_SPEED"`
	ChaseSpeed    float64 `yaml:"chase_speed"    env:"CHASE_SPEED"`
	DetectRange   float64 `yaml:"detect_range"   env:"DETECT_RANGE"`
	WindupSeconds float64 `yaml:"windup_seconds" env:"WINDUP_SECONDS"`
	SpitCooldown  float64 `yaml:"spit_cooldown"  env:"SPIT_COOLDOWN"`
	FireballSpeed float64 `yaml:"fireball_speed" env:"FIREBALL_SPEED"`
	FireballLife  float64 `yaml:"fireball_life"  env:"FIREBALL_LIFE"`
	Damage        int     `yaml:"damage"         env:"DAMAGE"`
	Points        int     `yaml:"points"         env:"POINTS"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"       env:"ENABLED"`
	InitialLevel float64           `yaml:"initial_level" env:"INITIAL_LEVEL"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"   envPrefix:"PROGRESSION_"`
	Scaling      ScalingConfig     `yaml:"scaling"       envPrefix:"SCALING_"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"   env:"TYPE"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at" env:"MAX_AT"` // Score or fixed steps at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	EnemySpeed  float64 `yaml:"enemy_speed"  env:"ENEMY_SPEED"`  // Multiplier added to slime speed at max difficulty
	ManaDrain   float64 `yaml:"mana_drain"   env:"MANA_DRAIN"`   // Multiplier added to mana drain at max difficulty
	DetectRange float64 `yaml:"detect_range" env:"DETECT_RANGE"` // Tiles added to slime detection at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value to a preset. The empty string means
// normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (easy, normal, hard, fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// Validate reports the first setting that would make the game unplayable.
func (c TimeslipConfig) Validate() error {
	var errs []error
	if c.Rewind.HistorySeconds <= 0 {
		errs = append(errs, fmt.Errorf("rewind.history_seconds must be positive, got %v", c.Rewind.HistorySeconds))
	}
	if c.Rewind.SamplesPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("rewind.samples_per_second must be positive, got %v", c.Rewind.SamplesPerSecond))
	}
	if c.Rewind.SpeedMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("rewind.speed_multiplier must be positive, got %v", c.Rewind.SpeedMultiplier))
	}
	if c.Rewind.Input != InputHold && c.Rewind.Input != InputToggle {
		errs = append(errs, fmt.Errorf("rewind.input must be %q or %q, got %q", InputHold, InputToggle, c.Rewind.Input))
	}
	if c.Physics.StepRate <= 0 {
		errs = append(errs, fmt.Errorf("physics.step_rate must be positive, got %v", c.Physics.StepRate))
	}
	if c.Player.Health <= 0 {
		errs = append(errs, fmt.Errorf("player.health must be positive, got %d", c.Player.Health))
	}
	if c.Player.MaxMana < 0 || c.Player.ManaDrain < 0 || c.Player.ManaRegen < 0 {
		errs = append(errs, errors.New("player mana settings must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
