// Package engine implements the headless game-session engine: problem
// generation, token spawning and the session state machine for both game
// modes. It has no terminal dependency; the platform drives it with a fixed
// tick and renders snapshots.
package engine

import (
	"fmt"
	"strings"
)

// Mode identifies a game mode.
type Mode int

const (
	ModeTime Mode = iota
	ModeSurvival
)

// Modes returns all modes in menu order.
func Modes() []Mode {
	return []Mode{ModeTime, ModeSurvival}
}

// String returns the display name, which is also the persisted name.
func (m Mode) String() string {
	switch m {
	case ModeTime:
		return "Time Mode"
	case ModeSurvival:
		return "Survival Mode"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ID returns the short identifier used on the command line.
func (m Mode) ID() string {
	switch m {
	case ModeTime:
		return "time"
	case ModeSurvival:
		return "survival"
	default:
		return ""
	}
}

// ParseMode accepts either the short identifier or the display name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time", "time mode", "t":
		return ModeTime, nil
	case "survival", "survival mode", "s":
		return ModeSurvival, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want time or survival)", s)
	}
}

// MarshalText encodes the mode by its display name.
func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeTime && m != ModeSurvival {
		return nil, fmt.Errorf("engine: cannot marshal %s", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode from its display name or identifier.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
