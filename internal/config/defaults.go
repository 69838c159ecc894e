package config

import (
	_ "embed"
)

//go:embed defaults/timeslip.yaml
var defaultTimeslipYAML []byte

// DefaultTimeslipConfig returns the built-in configuration. It mirrors
// defaults/timeslip.yaml and is used when no YAML source can be read.
func DefaultTimeslipConfig() TimeslipConfig {
	return TimeslipConfig{
		Rewind: RewindConfig{
			HistorySeconds:   5,
			SamplesPerSecond: 50,
			SpeedMultiplier:  1,
			Input:            InputHold,
			HoldWindowMs:     600,
		},
		Physics: PhysicsConfig{
			StepRate:     50,
			Gravity:      60,
			MaxFallSpeed: 24,
		},
		Player: PlayerConfig{
			MoveSpeed:     9,
			Acceleration:  80,
			JumpSpeed:     21,
			Health:        3,
			InvulnSeconds: 1,
			AttackSeconds: 0.25,
			AttackReach:   1.5,
			MaxMana:       100,
			ManaDrain:     25,
			ManaRegen:     5,
			OrbMana:       30,
			OrbPoints:     10,
		},
		Slime: SlimeConfig{
			PatrolSpeed:   2,
			ChaseSpeed:    4,
			DetectRange:   8,
			WindupSeconds: 0.6,
			SpitCooldown:  2,
			FireballSpeed: 10,
			FireballLife:  2.5,
			Damage:        1,
			Points:        50,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 9000, // 3 minutes at 50 steps per second
			},
			Scaling: ScalingConfig{
				EnemySpeed:  0.5,
				ManaDrain:   0.5,
				DetectRange: 4,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultTimeslipYAML
}
