package engine

import (
	"errors"
	"time"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/core"
)

// ErrNothingToReplay is returned by Replay before any session was played.
var ErrNothingToReplay = errors.New("engine: no previous session to replay")

// Host owns the active session and its generation counter. Every play,
// replay or leave bumps the generation; asynchronous results tagged with an
// older generation must be dropped by checking IsCurrent.
type Host struct {
	cfg        config.Config
	rt         core.RuntimeConfig
	now        func() time.Time
	generation uint64
	current    *Session

	lastMode       Mode
	lastDifficulty config.Difficulty
	played         bool
}

// NewHost creates a host with no active session.
func NewHost(cfg config.Config, rt core.RuntimeConfig) *Host {
	return &Host{cfg: cfg, rt: rt, now: time.Now}
}

// SetClock overrides the wall clock handed to new sessions.
func (h *Host) SetClock(now func() time.Time) {
	h.now = now
}

// Play discards any current session and starts a new one.
func (h *Host) Play(mode Mode, d config.Difficulty) *Session {
	h.generation++
	rt := h.rt
	if rt.Seed != 0 {
		rt.Seed += int64(h.generation) - 1
	}

	s := NewSession(mode, d, h.cfg, rt, WithGeneration(h.generation), WithClock(h.now))
	_ = s.Start() // fresh sessions are always Idle
	h.current = s
	h.lastMode, h.lastDifficulty, h.played = mode, d, true
	return s
}

// Replay starts a new session with the last mode and difficulty.
func (h *Host) Replay() (*Session, error) {
	if !h.played {
		return nil, ErrNothingToReplay
	}
	return h.Play(h.lastMode, h.lastDifficulty), nil
}

// Leave discards the current session without recording it.
func (h *Host) Leave() {
	h.generation++
	h.current = nil
}

// Current returns the active session, or nil.
func (h *Host) Current() *Session {
	return h.current
}

// Generation returns the current generation.
func (h *Host) Generation() uint64 {
	return h.generation
}

// IsCurrent reports whether gen still identifies the active session.
func (h *Host) IsCurrent(gen uint64) bool {
	return h.current != nil && gen == h.generation
}

// Config returns the tuning sessions are created with.
func (h *Host) Config() config.Config {
	return h.cfg
}
