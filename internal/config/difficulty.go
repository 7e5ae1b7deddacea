package config

import (
	"fmt"
	"strings"
)

// Difficulty represents a named difficulty level chosen before a run.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// Difficulties returns all difficulties in menu order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyModerate, DifficultyHard}
}

// ParseDifficulty converts user input into a Difficulty.
// "normal" and "medium" are accepted as aliases for moderate.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "e":
		return DifficultyEasy, nil
	case "moderate", "normal", "medium", "m":
		return DifficultyModerate, nil
	case "hard", "h":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, moderate or hard)", s)
	}
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
		return true
	}
	return false
}

// Title returns the capitalized display name.
func (d Difficulty) Title() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyModerate:
		return "Moderate"
	case DifficultyHard:
		return "Hard"
	default:
		return string(d)
	}
}

// Table holds one value per difficulty (speed multipliers, spawn chances).
type Table struct {
	Easy     float64 `yaml:"easy" toml:"easy"`
	Moderate float64 `yaml:"moderate" toml:"moderate"`
	Hard     float64 `yaml:"hard" toml:"hard"`
}

// For returns the value for the given difficulty. Unknown difficulties
// fall back to the easy value.
func (t Table) For(d Difficulty) float64 {
	switch d {
	case DifficultyModerate:
		return t.Moderate
	case DifficultyHard:
		return t.Hard
	default:
		return t.Easy
	}
}

func (t Table) all() []float64 {
	return []float64{t.Easy, t.Moderate, t.Hard}
}
