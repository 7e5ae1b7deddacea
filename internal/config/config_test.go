package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config should be valid, got %v", err)
	}
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	got := embedded()
	want := Default()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Embedded YAML differs from Default()\n got: %+v\nwant: %+v", got, want)
	}
}

func TestCountdownTotal(t *testing.T) {
	c := Default().Countdown
	if c.TotalMs() != 3700 {
		t.Errorf("Expected countdown of 3700ms, got %d", c.TotalMs())
	}
	if (CountdownConfig{}).TotalMs() != 0 {
		t.Error("Empty countdown should last 0ms")
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{"Moderate", DifficultyModerate, false},
		{"normal", DifficultyModerate, false},
		{" HARD ", DifficultyHard, false},
		{"h", DifficultyHard, false},
		{"insane", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestTableFor(t *testing.T) {
	tbl := Table{Easy: 1, Moderate: 1.5, Hard: 2}
	if tbl.For(DifficultyEasy) != 1 || tbl.For(DifficultyModerate) != 1.5 || tbl.For(DifficultyHard) != 2 {
		t.Errorf("Table.For returned wrong values: %+v", tbl)
	}
	if tbl.For(Difficulty("bogus")) != 1 {
		t.Error("Unknown difficulty should fall back to easy")
	}
}

func TestDistractorMaxFor(t *testing.T) {
	s := Default().Survival.Spawn
	if got := s.DistractorMaxFor(1); got != 9 {
		t.Errorf("Level 1 distractor max: expected 9, got %d", got)
	}
	if got := s.DistractorMaxFor(5); got != 99 {
		t.Errorf("Level 5 distractor max: expected 99, got %d", got)
	}
	if got := (SpawnConfig{}).DistractorMaxFor(3); got != 9 {
		t.Errorf("Empty table: expected 9, got %d", got)
	}
}

func TestLoadCustomYAMLOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "time:\n  duration_sec: 90\nsurvival:\n  reward: 7\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Time.DurationSec != 90 {
		t.Errorf("Expected duration 90, got %d", cfg.Time.DurationSec)
	}
	if cfg.Survival.Reward != 7 {
		t.Errorf("Expected reward 7, got %d", cfg.Survival.Reward)
	}
	// Untouched fields keep their defaults
	if cfg.Survival.Lives != 3 {
		t.Errorf("Expected default lives 3, got %d", cfg.Survival.Lives)
	}
	if len(cfg.Time.Rewards) != 4 || cfg.Time.Rewards[3] != 10 {
		t.Errorf("Expected default rewards, got %v", cfg.Time.Rewards)
	}
}

func TestLoadCustomTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	data := "[survival]\nlives = 2\n\n[survival.speed]\neasy = 1.25\nmoderate = 1.5\nhard = 2.0\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Survival.Lives != 2 {
		t.Errorf("Expected lives 2, got %d", cfg.Survival.Lives)
	}
	if cfg.Survival.Speed.Easy != 1.25 {
		t.Errorf("Expected easy speed 1.25, got %v", cfg.Survival.Speed.Easy)
	}
	if cfg.Time.DurationSec != 60 {
		t.Errorf("Expected default duration 60, got %d", cfg.Time.DurationSec)
	}
}

func TestLoadMissingCustomFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing custom config")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := "survival:\n  lives: 5\n  max_lives: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "lives") {
		t.Errorf("Expected error to mention lives, got %v", err)
	}
}

func TestValidateCatchesBadSpawn(t *testing.T) {
	cfg := Default()
	cfg.Time.Spawn.BatchMax = 20
	cfg.Survival.Spawn.TargetChance = 1.5
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "batch_max") || !strings.Contains(err.Error(), "target_chance") {
		t.Errorf("Expected both problems reported, got %v", err)
	}
}

func TestDecodeDoesNotAliasBase(t *testing.T) {
	base := Default()
	path := filepath.Join(t.TempDir(), "levels.yaml")
	if err := os.WriteFile(path, []byte("survival:\n  levels: [10, 20, 30, 40]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := decodeFile(path, base); err != nil {
		t.Fatal(err)
	}
	if base.Survival.Levels[0] != 25 {
		t.Errorf("Base config was mutated: %v", base.Survival.Levels)
	}
}

func TestValidateCarrierChance(t *testing.T) {
	cfg := Default()
	cfg.Survival.Heart.CarrierChance = -0.1
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "carrier_chance") {
		t.Errorf("Expected carrier_chance error, got %v", err)
	}
}
