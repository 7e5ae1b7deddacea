// Package config provides YAML/TOML game tuning and difficulty tables for
// both game modes.
package config

// Config contains all tuning for the game.
type Config struct {
	Countdown CountdownConfig `yaml:"countdown" toml:"countdown"`
	Time      TimeConfig      `yaml:"time" toml:"time"`
	Survival  SurvivalConfig  `yaml:"survival" toml:"survival"`
}

// CountdownConfig defines the 3-2-1-GO sequence shown before a run.
type CountdownConfig struct {
	Steps  []string `yaml:"steps" toml:"steps"`     // Labels, the last one is the "go" step
	StepMs int      `yaml:"step_ms" toml:"step_ms"` // Duration of every step but the last
	GoMs   int      `yaml:"go_ms" toml:"go_ms"`     // Duration of the last step
}

// TotalMs returns the full countdown length in milliseconds.
func (c CountdownConfig) TotalMs() int {
	if len(c.Steps) == 0 {
		return 0
	}
	return (len(c.Steps)-1)*c.StepMs + c.GoMs
}

// TimeConfig contains configuration for Time Mode.
type TimeConfig struct {
	DurationSec     int         `yaml:"duration_sec" toml:"duration_sec"`
	Levels          []int       `yaml:"levels" toml:"levels"`         // Time remaining above Levels[i] means level i+1
	Rewards         []int       `yaml:"rewards" toml:"rewards"`       // Points per correct tap, by level
	RefreshAt       []int       `yaml:"refresh_at" toml:"refresh_at"` // Extra problem refreshes at these seconds
	DivisionAt      int         `yaml:"division_at" toml:"division_at"`
	WrongTapPenalty int         `yaml:"wrong_tap_penalty" toml:"wrong_tap_penalty"`
	Speed           Table       `yaml:"speed" toml:"speed"`
	Spawn           SpawnConfig `yaml:"spawn" toml:"spawn"`
	Bonus           BonusConfig `yaml:"bonus" toml:"bonus"`
}

// SurvivalConfig contains configuration for Survival Mode.
type SurvivalConfig struct {
	Lives           int         `yaml:"lives" toml:"lives"`
	MaxLives        int         `yaml:"max_lives" toml:"max_lives"`
	Reward          int         `yaml:"reward" toml:"reward"`
	Levels          []int       `yaml:"levels" toml:"levels"` // Score at or above Levels[i] means level i+2
	RefreshEverySec int         `yaml:"refresh_every_sec" toml:"refresh_every_sec"`
	Speed           Table       `yaml:"speed" toml:"speed"`
	Spawn           SpawnConfig `yaml:"spawn" toml:"spawn"`
	Heart           HeartConfig `yaml:"heart" toml:"heart"`
}

// SpawnConfig parameterizes the shared spawn scheduler for one mode.
// Durations are given at speed 1 and divided by the difficulty speed.
type SpawnConfig struct {
	IntervalMs       int     `yaml:"interval_ms" toml:"interval_ms"`
	BatchBase        int     `yaml:"batch_base" toml:"batch_base"`
	BatchPerLevel    float64 `yaml:"batch_per_level" toml:"batch_per_level"`
	BatchJitter      int     `yaml:"batch_jitter" toml:"batch_jitter"`
	BatchMax         int     `yaml:"batch_max" toml:"batch_max"`
	StaggerMs        int     `yaml:"stagger_ms" toml:"stagger_ms"`
	TargetChance     float64 `yaml:"target_chance" toml:"target_chance"`
	DistractorMax    []int   `yaml:"distractor_max" toml:"distractor_max"` // By level, last entry repeats
	LifetimeMs       int     `yaml:"lifetime_ms" toml:"lifetime_ms"`
	LifetimeJitterMs int     `yaml:"lifetime_jitter_ms" toml:"lifetime_jitter_ms"`
	LifetimeStepMs   int     `yaml:"lifetime_step_ms" toml:"lifetime_step_ms"`
	MinLifetimeMs    int     `yaml:"min_lifetime_ms" toml:"min_lifetime_ms"`
}

// DistractorMaxFor returns the largest distractor value for a level.
func (s SpawnConfig) DistractorMaxFor(level int) int {
	if len(s.DistractorMax) == 0 {
		return 9
	}
	i := level - 1
	if i < 0 {
		i = 0
	}
	if i >= len(s.DistractorMax) {
		i = len(s.DistractorMax) - 1
	}
	return s.DistractorMax[i]
}

// BonusConfig defines TimeBonus tokens.
type BonusConfig struct {
	Chance     Table `yaml:"chance" toml:"chance"`
	Seconds    int   `yaml:"seconds" toml:"seconds"`
	LifetimeMs int   `yaml:"lifetime_ms" toml:"lifetime_ms"`
}

// HeartConfig defines Heart tokens.
type HeartConfig struct {
	Chance           Table   `yaml:"chance" toml:"chance"`
	LowLivesChance   Table   `yaml:"low_lives_chance" toml:"low_lives_chance"`
	CarrierChance    float64 `yaml:"carrier_chance" toml:"carrier_chance"` // Number balloons that also carry a heart
	LifetimeMs       int     `yaml:"lifetime_ms" toml:"lifetime_ms"`
	ForcedEverySec   int     `yaml:"forced_every_sec" toml:"forced_every_sec"`
	ForcedLifetimeMs int     `yaml:"forced_lifetime_ms" toml:"forced_lifetime_ms"`
}
