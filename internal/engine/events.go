package engine

import "github.com/vovakirdan/balloonmath/internal/core"

// Event is emitted by a session as its state changes.
// Sealed: only types in this package implement it.
type Event interface {
	sessionEvent()
}

// RemoveReason explains why a token left the play field.
type RemoveReason int

const (
	RemovedTapped RemoveReason = iota
	RemovedExpired
	RemovedSessionEnded
)

func (r RemoveReason) String() string {
	switch r {
	case RemovedTapped:
		return "tapped"
	case RemovedExpired:
		return "expired"
	case RemovedSessionEnded:
		return "session-ended"
	default:
		return "unknown"
	}
}

// StateChanged is emitted on every status transition.
type StateChanged struct {
	From, To Status
}

// CountdownStep is emitted when the countdown label changes.
type CountdownStep struct {
	Label string
}

// ProblemChanged is emitted when a new problem becomes current.
type ProblemChanged struct {
	Problem Problem
}

// LevelChanged is emitted when the derived level changes.
type LevelChanged struct {
	From, To int
}

// TokenSpawned is emitted for each new token.
type TokenSpawned struct {
	Token Token
}

// TokenRemoved is emitted when a token leaves the play field.
type TokenRemoved struct {
	ID     core.TokenID
	Reason RemoveReason
}

// CorrectTap is emitted when the target was tapped.
type CorrectTap struct {
	Token  Token
	Reward int
}

// WrongTap is emitted when a non-target number was tapped.
type WrongTap struct {
	Token Token
}

// MissedTarget is emitted when a token carrying the target expired and cost a life.
type MissedTarget struct {
	Token Token
}

// LifeGained is emitted when a heart was collected.
type LifeGained struct {
	Lives int
}

// TimeBonusCollected is emitted when a time bonus was collected.
type TimeBonusCollected struct {
	Seconds int
}

// Finished is emitted exactly once, when the session reaches Over.
type Finished struct {
	Record ScoreRecord
}

func (StateChanged) sessionEvent()       {}
func (CountdownStep) sessionEvent()      {}
func (ProblemChanged) sessionEvent()     {}
func (LevelChanged) sessionEvent()       {}
func (TokenSpawned) sessionEvent()       {}
func (TokenRemoved) sessionEvent()       {}
func (CorrectTap) sessionEvent()         {}
func (WrongTap) sessionEvent()           {}
func (MissedTarget) sessionEvent()       {}
func (LifeGained) sessionEvent()         {}
func (TimeBonusCollected) sessionEvent() {}
func (Finished) sessionEvent()           {}
