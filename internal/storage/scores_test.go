package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/engine"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func record(mode engine.Mode, d config.Difficulty, score int, offset time.Duration) engine.ScoreRecord {
	return engine.NewScoreRecord(mode, d, score, baseTime.Add(offset))
}

// failingKV fails every operation.
type failingKV struct{}

var errBroken = errors.New("disk on fire")

func (failingKV) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (failingKV) Set(context.Context, string, string) error         { return errBroken }
func (failingKV) Close() error                                      { return nil }

func TestQueryNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore(NewMemoryKV(), nil)

	for i, score := range []int{10, 30, 20} {
		if err := s.Append(ctx, record(engine.ModeSurvival, config.DifficultyEasy, score, time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	entries := s.Query(ctx, Filter{})
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	want := []int{20, 30, 10}
	for i, e := range entries {
		if e.Score != want[i] {
			t.Errorf("Entry %d: expected score %d, got %d", i, want[i], e.Score)
		}
	}
}

func TestIsHighestDerived(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore(NewMemoryKV(), nil)

	for i, score := range []int{10, 20, 15} {
		s.Append(ctx, record(engine.ModeTime, config.DifficultyEasy, score, time.Duration(i)*time.Second))
	}
	// Another partition with a higher score must not affect the first one
	s.Append(ctx, record(engine.ModeTime, config.DifficultyHard, 99, time.Hour))

	for _, e := range s.Query(ctx, Filter{Difficulty: config.DifficultyEasy}) {
		if e.IsHighest != (e.Score == 20) {
			t.Errorf("Score %d: IsHighest = %v", e.Score, e.IsHighest)
		}
	}
}

func TestQueryFilters(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore(NewMemoryKV(), nil)

	s.Append(ctx, record(engine.ModeTime, config.DifficultyEasy, 5, 0))
	s.Append(ctx, record(engine.ModeSurvival, config.DifficultyEasy, 15, time.Minute))
	s.Append(ctx, record(engine.ModeSurvival, config.DifficultyHard, 25, 72*time.Hour))

	survival := engine.ModeSurvival
	if got := s.Query(ctx, Filter{Mode: &survival}); len(got) != 2 {
		t.Errorf("Mode filter: expected 2, got %d", len(got))
	}
	if got := s.Query(ctx, Filter{Mode: &survival, Difficulty: config.DifficultyHard}); len(got) != 1 || got[0].Score != 25 {
		t.Errorf("Mode+difficulty filter: unexpected %+v", got)
	}

	day := record(engine.ModeTime, config.DifficultyEasy, 0, 0).Date()
	got := s.Query(ctx, Filter{Date: day})
	if len(got) != 2 {
		t.Errorf("Date filter: expected 2 records on %s, got %d", day, len(got))
	}
	// The highest flag still considers records outside the filter
	for _, e := range got {
		if !e.IsHighest {
			t.Errorf("Record %+v should be highest of its partition", e.ScoreRecord)
		}
	}
}

func TestDatesAndStats(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore(NewMemoryKV(), nil)

	s.Append(ctx, record(engine.ModeTime, config.DifficultyEasy, 4, 0))
	s.Append(ctx, record(engine.ModeTime, config.DifficultyEasy, 8, time.Minute))
	s.Append(ctx, record(engine.ModeSurvival, config.DifficultyModerate, 30, 48*time.Hour))

	dates := s.Dates(ctx)
	if len(dates) != 2 {
		t.Fatalf("Expected 2 dates, got %v", dates)
	}
	if dates[0] <= dates[1] {
		t.Errorf("Dates should be newest first: %v", dates)
	}

	stats := s.Stats(ctx)
	if len(stats) != 2 {
		t.Fatalf("Expected 2 stat rows, got %d", len(stats))
	}
	tm := stats[0]
	if tm.Mode != engine.ModeTime || tm.Games != 2 || tm.Best != 8 || tm.Average != 6 {
		t.Errorf("Unexpected time stats %+v", tm)
	}
	if !tm.LastPlayed.Equal(baseTime.Add(time.Minute)) {
		t.Errorf("Expected last played %v, got %v", baseTime.Add(time.Minute), tm.LastPlayed)
	}
	if stats[1].Mode != engine.ModeSurvival || stats[1].Best != 30 {
		t.Errorf("Unexpected survival stats %+v", stats[1])
	}
}

func TestHighScoreDefaultsAndUpdates(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewScoreStore(kv, nil)

	if got := s.HighScore(ctx, engine.ModeTime, config.DifficultyEasy); got != 0 {
		t.Errorf("Expected default 0, got %d", got)
	}

	best, err := s.SaveResult(ctx, record(engine.ModeTime, config.DifficultyEasy, 12, 0))
	if err != nil || best != 12 {
		t.Fatalf("SaveResult = %d, %v; expected 12", best, err)
	}
	best, err = s.SaveResult(ctx, record(engine.ModeTime, config.DifficultyEasy, 7, time.Second))
	if err != nil || best != 12 {
		t.Errorf("Lower score must not replace the best: got %d, %v", best, err)
	}
	if got := s.HighScore(ctx, engine.ModeTime, config.DifficultyEasy); got != 12 {
		t.Errorf("Expected stored best 12, got %d", got)
	}
	if got := s.HighScore(ctx, engine.ModeSurvival, config.DifficultyEasy); got != 0 {
		t.Errorf("Survival best should be independent, got %d", got)
	}

	// Key names are shared with earlier installs
	if v, ok, _ := kv.Get(ctx, "@timeModeHighScore_easy"); !ok || v != "12" {
		t.Errorf("Expected @timeModeHighScore_easy = 12, got %q", v)
	}
	if _, ok, _ := kv.Get(ctx, HistoryKey); !ok {
		t.Error("Expected history under @scoreHistory")
	}
	if got := len(s.History(ctx)); got != 2 {
		t.Errorf("Expected 2 history records, got %d", got)
	}
}

func TestMalformedDataReadsEmptyAndIsKept(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Set(ctx, HistoryKey, "{not json")
	kv.Set(ctx, HighScoreKey(engine.ModeSurvival, config.DifficultyHard), "lots")
	s := NewScoreStore(kv, nil)

	if got := s.Query(ctx, Filter{}); len(got) != 0 {
		t.Errorf("Malformed history should read as empty, got %d entries", len(got))
	}
	if got := s.HighScore(ctx, engine.ModeSurvival, config.DifficultyHard); got != 0 {
		t.Errorf("Malformed high score should read as 0, got %d", got)
	}

	// The unreadable history is kept rather than replaced
	if err := s.Append(ctx, record(engine.ModeSurvival, config.DifficultyHard, 3, 0)); !errors.Is(err, ErrMalformedHistory) {
		t.Errorf("Expected ErrMalformedHistory, got %v", err)
	}
	if v, _, _ := kv.Get(ctx, HistoryKey); v != "{not json" {
		t.Errorf("Malformed history was overwritten with %q", v)
	}
}

func TestUnreadableRecordsArePreserved(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Set(ctx, HistoryKey, `[{"mode":"Time Mode","difficulty":"easy","score":9,"timestamp":"2025-06-01T10:00:00Z"},`+
		`{"mode":"Zen Mode","difficulty":"easy","score":50,"timestamp":"2025-06-01T11:00:00Z"}]`)
	s := NewScoreStore(kv, nil)

	if got := s.Query(ctx, Filter{}); len(got) != 1 || got[0].Score != 9 {
		t.Fatalf("Expected only the readable record, got %+v", got)
	}

	if err := s.Append(ctx, record(engine.ModeSurvival, config.DifficultyHard, 3, 0)); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	got := s.Query(ctx, Filter{})
	if len(got) != 2 {
		t.Fatalf("Expected the earlier record to survive the append, got %d entries", len(got))
	}
	raw, _, _ := kv.Get(ctx, HistoryKey)
	if !strings.Contains(raw, `"Zen Mode"`) {
		t.Errorf("Unreadable record was dropped from storage: %s", raw)
	}
}

func TestLegacyHistoryFormat(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Set(ctx, HistoryKey, `[{"mode":"Time Mode","difficulty":"easy","score":9,"timestamp":"2024-12-31T23:59:59.123Z"}]`)
	s := NewScoreStore(kv, nil)

	got := s.Query(ctx, Filter{})
	if len(got) != 1 || got[0].Mode != engine.ModeTime || got[0].Score != 9 || !got[0].IsHighest {
		t.Errorf("Unexpected legacy entries %+v", got)
	}
}

func TestFailingKVDegrades(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore(failingKV{}, nil)

	if got := s.HighScore(ctx, engine.ModeTime, config.DifficultyEasy); got != 0 {
		t.Errorf("Expected 0 on read failure, got %d", got)
	}
	if got := s.Query(ctx, Filter{}); len(got) != 0 {
		t.Errorf("Expected empty history on read failure, got %d", len(got))
	}
	if err := s.Append(ctx, record(engine.ModeTime, config.DifficultyEasy, 1, 0)); !errors.Is(err, errBroken) {
		t.Errorf("Expected append error, got %v", err)
	}
	if _, err := s.SaveResult(ctx, record(engine.ModeTime, config.DifficultyEasy, 1, 0)); err == nil {
		t.Error("Expected SaveResult to report the failure")
	}
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	kv, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer kv.Close()

	stores := map[string]KV{"memory": NewMemoryKV(), "sqlite": kv}
	for name, backend := range stores {
		s := NewScoreStore(backend, nil)

		const n = 40
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := s.SaveResult(ctx, record(engine.ModeSurvival, config.DifficultyModerate, i, time.Duration(i)*time.Second)); err != nil {
					t.Errorf("%s: SaveResult failed: %v", name, err)
				}
			}(i)
		}
		wg.Wait()

		history := s.History(ctx)
		if len(history) != n {
			t.Errorf("%s: expected %d records, got %d", name, n, len(history))
		}
		seen := make(map[int]bool)
		for _, r := range history {
			seen[r.Score] = true
		}
		if len(seen) != n {
			t.Errorf("%s: records were overwritten, %d distinct scores", name, len(seen))
		}
		if best := s.HighScore(ctx, engine.ModeSurvival, config.DifficultyModerate); best != n-1 {
			t.Errorf("%s: expected best %d, got %d", name, n-1, best)
		}
	}
}
