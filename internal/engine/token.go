package engine

import (
	"time"

	"github.com/vovakirdan/balloonmath/internal/core"
)

// TokenKind identifies what a falling token does when tapped.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenTimeBonus
	TokenHeart
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenTimeBonus:
		return "time-bonus"
	case TokenHeart:
		return "heart"
	default:
		return "unknown"
	}
}

// Token is a falling entity owned by one session.
type Token struct {
	ID    core.TokenID
	Kind  TokenKind
	Value int        // Number value, bonus seconds, or lives granted
	X     float64    // Horizontal position in [0, 1)
	Color core.Color // Balloon color, number tokens only

	// CarriesHeart marks a number balloon that grants a life instead of
	// being scored. Survival Mode only.
	CarriesHeart bool

	SpawnedAt time.Duration // Session clock at spawn
	Lifetime  time.Duration // Fall time before expiry
}

// ExpiresAt returns the session clock value at which the token expires.
func (t Token) ExpiresAt() time.Duration {
	return t.SpawnedAt + t.Lifetime
}

// Progress returns how far the token has fallen, in [0, 1].
func (t Token) Progress(now time.Duration) float64 {
	if t.Lifetime <= 0 {
		return 1
	}
	return core.ClampF(float64(now-t.SpawnedAt)/float64(t.Lifetime), 0, 1)
}
