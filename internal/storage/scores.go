package storage

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/engine"
)

// HistoryKey holds the JSON list of every finished session.
const HistoryKey = "@scoreHistory"

// HighScoreKey returns the key of the best score for a mode and difficulty.
func HighScoreKey(mode engine.Mode, d config.Difficulty) string {
	if mode == engine.ModeTime {
		return "@timeModeHighScore_" + string(d)
	}
	return "survivalModeHighScore_" + string(d)
}

// Entry is a history record with its derived highest flag.
type Entry struct {
	engine.ScoreRecord
	IsHighest bool
}

// Filter narrows a history query. Zero fields match everything.
type Filter struct {
	Date       string       // Local calendar day, YYYY-MM-DD
	Mode       *engine.Mode // nil for any mode
	Difficulty config.Difficulty
}

func (f Filter) match(r engine.ScoreRecord) bool {
	if f.Date != "" && r.Date() != f.Date {
		return false
	}
	if f.Mode != nil && r.Mode != *f.Mode {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// Stats summarizes the games of one mode and difficulty.
type Stats struct {
	Mode       engine.Mode
	Difficulty config.Difficulty
	Games      int
	Best       int
	Average    float64
	LastPlayed time.Time
}

var (
	_ engine.ResultSaver     = (*ScoreStore)(nil)
	_ engine.HighScoreSource = (*ScoreStore)(nil)
)

type partition struct {
	mode       engine.Mode
	difficulty config.Difficulty
}

// ScoreStore keeps the append-only score history and the best score per
// mode and difficulty on top of a KV. Read failures degrade to empty values
// and are logged; the store never returns partially applied state.
//
// ScoreStore is safe for concurrent use. Every read-modify-write of the
// history happens under one mutex, so concurrent appends never lose records.
type ScoreStore struct {
	kv     KV
	logger *log.Logger
	mu     sync.Mutex
}

// NewScoreStore creates a store. A nil logger discards log output.
func NewScoreStore(kv KV, logger *log.Logger) *ScoreStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ScoreStore{kv: kv, logger: logger}
}

// ErrMalformedHistory is returned by Append when the stored history is not
// a JSON list. The stored value is left untouched.
var ErrMalformedHistory = errors.New("storage: malformed score history")

// Append adds a record to the history. If the history cannot be read the
// write is dropped, so a failed or malformed read never truncates stored
// records. Stored entries that do not decode are kept as they are.
func (s *ScoreStore) Append(ctx context.Context, rec engine.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(ctx, rec)
}

func (s *ScoreStore) appendLocked(ctx context.Context, rec engine.ScoreRecord) error {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		s.logger.Warn("dropping score record", "error", err, "mode", rec.Mode, "score", rec.Score)
		return err
	}

	entry, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("storage: cannot encode record: %w", err)
	}
	data, err := json.Marshal(append(entries, entry))
	if err != nil {
		return fmt.Errorf("storage: cannot encode history: %w", err)
	}
	if err := s.kv.Set(ctx, HistoryKey, string(data)); err != nil {
		s.logger.Warn("could not write score history", "error", err)
		return err
	}
	return nil
}

// loadEntries reads the stored history as raw entries. A missing key is an
// empty history; a value that is not a JSON list is ErrMalformedHistory.
func (s *ScoreStore) loadEntries(ctx context.Context) ([]json.RawMessage, error) {
	raw, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	return entries, nil
}

// decodeEntries returns the entries that decode to a valid record, in order.
func (s *ScoreStore) decodeEntries(entries []json.RawMessage) []engine.ScoreRecord {
	history := make([]engine.ScoreRecord, 0, len(entries))
	for i, e := range entries {
		var rec engine.ScoreRecord
		if err := json.Unmarshal(e, &rec); err != nil || !rec.Difficulty.Valid() {
			s.logger.Warn("skipping unreadable score record", "index", i, "error", err)
			continue
		}
		history = append(history, rec)
	}
	return history
}

// History returns every readable record in insertion order. A failing or
// malformed history reads as empty.
func (s *ScoreStore) History(ctx context.Context) []engine.ScoreRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadEntries(ctx)
	if err != nil {
		s.logger.Warn("could not read score history", "error", err)
		return nil
	}
	return s.decodeEntries(entries)
}

// Query returns the matching records, most recent first. IsHighest is
// computed over the whole history, not just the filtered records.
func (s *ScoreStore) Query(ctx context.Context, f Filter) []Entry {
	history := s.History(ctx)

	best := make(map[partition]int)
	for _, r := range history {
		key := partition{r.Mode, r.Difficulty}
		if v, ok := best[key]; !ok || r.Score > v {
			best[key] = r.Score
		}
	}

	entries := make([]Entry, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		r := history[i]
		if !f.match(r) {
			continue
		}
		entries = append(entries, Entry{
			ScoreRecord: r,
			IsHighest:   r.Score == best[partition{r.Mode, r.Difficulty}],
		})
	}

	// Insertion order was reversed above, so the stable sort keeps later
	// records first among equal timestamps.
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return entries
}

// Dates returns the local days that have records, most recent first.
func (s *ScoreStore) Dates(ctx context.Context) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, r := range s.History(ctx) {
		d := r.Date()
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	slices.SortFunc(dates, func(a, b string) int { return cmp.Compare(b, a) })
	return dates
}

// Stats summarizes the history per mode and difficulty. Only combinations
// that have been played are returned, in menu order.
func (s *ScoreStore) Stats(ctx context.Context) []Stats {
	agg := make(map[partition]*Stats)
	totals := make(map[partition]int)
	for _, r := range s.History(ctx) {
		key := partition{r.Mode, r.Difficulty}
		st, ok := agg[key]
		if !ok {
			st = &Stats{Mode: r.Mode, Difficulty: r.Difficulty, Best: r.Score}
			agg[key] = st
		}
		st.Games++
		st.Best = max(st.Best, r.Score)
		totals[key] += r.Score
		if r.Timestamp.After(st.LastPlayed) {
			st.LastPlayed = r.Timestamp
		}
	}

	var out []Stats
	for _, mode := range engine.Modes() {
		for _, d := range config.Difficulties() {
			key := partition{mode, d}
			st, ok := agg[key]
			if !ok {
				continue
			}
			st.Average = float64(totals[key]) / float64(st.Games)
			out = append(out, *st)
		}
	}
	return out
}

// HighScore returns the stored best score, or 0 when absent or unreadable.
func (s *ScoreStore) HighScore(ctx context.Context, mode engine.Mode, d config.Difficulty) int {
	v, err := s.readHighScore(ctx, mode, d)
	if err != nil {
		s.logger.Warn("could not read high score", "error", err, "mode", mode, "difficulty", d)
		return 0
	}
	return v
}

func (s *ScoreStore) readHighScore(ctx context.Context, mode engine.Mode, d config.Difficulty) (int, error) {
	key := HighScoreKey(mode, d)
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("storage: malformed high score %q: %w", key, err)
	}
	return v, nil
}

// SetHighScore stores value as the best score.
func (s *ScoreStore) SetHighScore(ctx context.Context, mode engine.Mode, d config.Difficulty, value int) error {
	if err := s.kv.Set(ctx, HighScoreKey(mode, d), strconv.Itoa(value)); err != nil {
		s.logger.Warn("could not write high score", "error", err, "mode", mode, "difficulty", d)
		return err
	}
	return nil
}

// SaveResult appends the record and raises the high score when the record
// beats it. It returns the best score after saving; on failure the best
// score known so far is still returned alongside the error.
func (s *ScoreStore) SaveResult(ctx context.Context, rec engine.ScoreRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appendErr := s.appendLocked(ctx, rec)

	best, err := s.readHighScore(ctx, rec.Mode, rec.Difficulty)
	if err != nil {
		s.logger.Warn("could not read high score", "error", err)
		best = 0
	}
	if rec.Score <= best {
		return best, appendErr
	}
	if err := s.SetHighScore(ctx, rec.Mode, rec.Difficulty, rec.Score); err != nil {
		return rec.Score, errors.Join(appendErr, err)
	}
	s.logger.Info("new high score", "mode", rec.Mode, "difficulty", rec.Difficulty, "score", rec.Score)
	return rec.Score, appendErr
}
