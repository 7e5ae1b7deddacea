package config

import (
	_ "embed"
)

//go:embed defaults/balloonmath.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// Default returns the built-in configuration. It matches the embedded
// defaults/balloonmath.yaml and is used when that file cannot be decoded.
func Default() Config {
	return Config{
		Countdown: CountdownConfig{
			Steps:  []string{"3", "2", "1", "GO!"},
			StepMs: 1000,
			GoMs:   700,
		},
		Time: TimeConfig{
			DurationSec:     60,
			Levels:          []int{50, 30, 20},
			Rewards:         []int{1, 3, 5, 10},
			RefreshAt:       []int{41, 11},
			DivisionAt:      11,
			WrongTapPenalty: 1,
			Speed:           Table{Easy: 1.0, Moderate: 1.3, Hard: 1.5},
			Spawn: SpawnConfig{
				IntervalMs:       1250,
				BatchBase:        2,
				BatchPerLevel:    0,
				BatchJitter:      1,
				BatchMax:         3,
				StaggerMs:        0,
				TargetChance:     0.3,
				DistractorMax:    []int{9},
				LifetimeMs:       5000,
				LifetimeJitterMs: 2000,
				LifetimeStepMs:   0,
				MinLifetimeMs:    3000,
			},
			Bonus: BonusConfig{
				Chance:     Table{Easy: 0.4, Moderate: 0.3, Hard: 0.2},
				Seconds:    3,
				LifetimeMs: 4000,
			},
		},
		Survival: SurvivalConfig{
			Lives:           3,
			MaxLives:        3,
			Reward:          5,
			Levels:          []int{25, 50, 75, 100},
			RefreshEverySec: 10,
			Speed:           Table{Easy: 1.0, Moderate: 1.5, Hard: 2.0},
			Spawn: SpawnConfig{
				IntervalMs:       2000,
				BatchBase:        5,
				BatchPerLevel:    1.5,
				BatchJitter:      0,
				BatchMax:         12,
				StaggerMs:        300,
				TargetChance:     0.3,
				DistractorMax:    []int{9, 99},
				LifetimeMs:       8000,
				LifetimeJitterMs: 0,
				LifetimeStepMs:   500,
				MinLifetimeMs:    3000,
			},
			Heart: HeartConfig{
				Chance:           Table{Easy: 0.2, Moderate: 0.15, Hard: 0.1},
				LowLivesChance:   Table{Easy: 0.5, Moderate: 0.4, Hard: 0.3},
				CarrierChance:    0.05,
				LifetimeMs:       8000,
				ForcedEverySec:   30,
				ForcedLifetimeMs: 15000,
			},
		},
	}
}
