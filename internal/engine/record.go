package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/balloonmath/internal/config"
)

// ScoreRecord is the persisted result of one finished session.
type ScoreRecord struct {
	ID         string            `json:"id,omitempty"`
	Mode       Mode              `json:"mode"`
	Difficulty config.Difficulty `json:"difficulty"`
	Score      int               `json:"score"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewScoreRecord creates a record with a fresh id.
func NewScoreRecord(mode Mode, d config.Difficulty, score int, at time.Time) ScoreRecord {
	return ScoreRecord{
		ID:         uuid.NewString(),
		Mode:       mode,
		Difficulty: d,
		Score:      score,
		Timestamp:  at.UTC(),
	}
}

// Date returns the record's local calendar day as YYYY-MM-DD.
func (r ScoreRecord) Date() string {
	return r.Timestamp.Local().Format(time.DateOnly)
}

// ResultSaver persists finished sessions. It is implemented by the score
// store so the platform can save without importing storage.
type ResultSaver interface {
	// SaveResult appends the record and raises the high score when exceeded.
	// It returns the best score after saving.
	SaveResult(ctx context.Context, rec ScoreRecord) (best int, err error)
}

// HighScoreSource reads the stored best score of a mode and difficulty.
type HighScoreSource interface {
	HighScore(ctx context.Context, mode Mode, d config.Difficulty) int
}
