package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads the game configuration.
// Search order: customPath -> ~/.balloonmath/config.yaml -> ./configs/balloonmath.yaml -> embedded default.
// Files are decoded on top of the defaults, so partial files are allowed.
// Paths ending in .toml are decoded as TOML, anything else as YAML.
func Load(customPath string) (Config, error) {
	base := embedded()

	// Try custom path first
	if customPath != "" {
		cfg, err := decodeFile(customPath, base)
		if err != nil {
			return base, err
		}
		if err := cfg.Validate(); err != nil {
			return base, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if cfg, err := decodeFile(userCfgPath, base); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := decodeFile(filepath.Join("configs", "balloonmath.yaml"), base); err == nil && cfg.Validate() == nil {
		return cfg, nil
	}

	return base, nil
}

// embedded decodes the embedded default YAML, falling back to Default.
func embedded() Config {
	cfg := Default()
	var fromFile Config
	if err := yaml.Unmarshal(defaultYAML, &fromFile); err != nil {
		return cfg // Fallback to hardcoded if embed fails
	}
	if fromFile.Validate() != nil {
		return cfg
	}
	return fromFile
}

func decodeFile(path string, base Config) (Config, error) {
	cfg := base.clone()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return base, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// clone deep-copies the slices so decoding into the copy never aliases base.
func (c Config) clone() Config {
	out := c
	out.Countdown.Steps = append([]string(nil), c.Countdown.Steps...)
	out.Time.Levels = append([]int(nil), c.Time.Levels...)
	out.Time.Rewards = append([]int(nil), c.Time.Rewards...)
	out.Time.RefreshAt = append([]int(nil), c.Time.RefreshAt...)
	out.Time.Spawn.DistractorMax = append([]int(nil), c.Time.Spawn.DistractorMax...)
	out.Survival.Levels = append([]int(nil), c.Survival.Levels...)
	out.Survival.Spawn.DistractorMax = append([]int(nil), c.Survival.Spawn.DistractorMax...)
	return out
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".balloonmath", filename)
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	var errs []error

	if len(c.Countdown.Steps) == 0 {
		errs = append(errs, errors.New("countdown: steps must not be empty"))
	}
	if c.Countdown.StepMs < 0 || c.Countdown.GoMs < 0 {
		errs = append(errs, errors.New("countdown: durations must not be negative"))
	}

	t := c.Time
	if t.DurationSec <= 0 {
		errs = append(errs, errors.New("time: duration_sec must be positive"))
	}
	if len(t.Levels) == 0 {
		errs = append(errs, errors.New("time: levels must not be empty"))
	}
	if len(t.Rewards) < len(t.Levels)+1 {
		errs = append(errs, fmt.Errorf("time: need %d rewards, got %d", len(t.Levels)+1, len(t.Rewards)))
	}
	if t.WrongTapPenalty < 0 {
		errs = append(errs, errors.New("time: wrong_tap_penalty must not be negative"))
	}
	errs = append(errs, validateSpeed("time", t.Speed)...)
	errs = append(errs, validateSpawn("time", t.Spawn)...)
	errs = append(errs, validateChance("time.bonus", t.Bonus.Chance)...)

	s := c.Survival
	if s.MaxLives <= 0 || s.Lives <= 0 || s.Lives > s.MaxLives {
		errs = append(errs, errors.New("survival: lives must be in [1, max_lives]"))
	}
	if s.Reward <= 0 {
		errs = append(errs, errors.New("survival: reward must be positive"))
	}
	for i := 1; i < len(s.Levels); i++ {
		if s.Levels[i] <= s.Levels[i-1] {
			errs = append(errs, errors.New("survival: levels must be increasing"))
			break
		}
	}
	errs = append(errs, validateSpeed("survival", s.Speed)...)
	errs = append(errs, validateSpawn("survival", s.Spawn)...)
	errs = append(errs, validateChance("survival.heart", s.Heart.Chance)...)
	errs = append(errs, validateChance("survival.heart.low_lives", s.Heart.LowLivesChance)...)
	if s.Heart.CarrierChance < 0 || s.Heart.CarrierChance > 1 {
		errs = append(errs, errors.New("survival.heart: carrier_chance must be in [0, 1]"))
	}

	return errors.Join(errs...)
}

func validateSpeed(section string, t Table) []error {
	for _, v := range t.all() {
		if v <= 0 {
			return []error{fmt.Errorf("%s: speed multipliers must be positive", section)}
		}
	}
	return nil
}

func validateChance(section string, t Table) []error {
	for _, v := range t.all() {
		if v < 0 || v > 1 {
			return []error{fmt.Errorf("%s: chances must be in [0, 1]", section)}
		}
	}
	return nil
}

func validateSpawn(section string, s SpawnConfig) []error {
	var errs []error
	if s.IntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("%s.spawn: interval_ms must be positive", section))
	}
	if s.BatchMax < 2 || s.BatchMax > 12 {
		errs = append(errs, fmt.Errorf("%s.spawn: batch_max must be in [2, 12]", section))
	}
	if s.BatchBase < 0 || s.BatchJitter < 0 || s.BatchPerLevel < 0 {
		errs = append(errs, fmt.Errorf("%s.spawn: batch parameters must not be negative", section))
	}
	if s.TargetChance < 0 || s.TargetChance > 1 {
		errs = append(errs, fmt.Errorf("%s.spawn: target_chance must be in [0, 1]", section))
	}
	if s.LifetimeMs <= 0 || s.MinLifetimeMs <= 0 {
		errs = append(errs, fmt.Errorf("%s.spawn: lifetimes must be positive", section))
	}
	for _, m := range s.DistractorMax {
		if m < 1 {
			errs = append(errs, fmt.Errorf("%s.spawn: distractor_max entries must be at least 1", section))
			break
		}
	}
	return errs
}
