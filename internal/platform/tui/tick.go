// Package tui provides the Bubble Tea integration for Balloon Math.
// It drives the engine with a fixed tick, maps keys and mouse clicks to taps,
// renders sessions and serves the same flow over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg triggers one simulation step of the session with the given
// generation. Ticks from a replaced session are ignored, which ends their loop.
type TickMsg struct {
	Generation uint64
	Time       time.Time
}

// tickCmd returns a Bubble Tea command that sends a tick after one interval.
func tickCmd(tickRate int, gen uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Generation: gen, Time: t}
	})
}
