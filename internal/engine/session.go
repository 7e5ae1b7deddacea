package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/core"
)

// Status is the lifecycle state of a session. Exactly one holds at a time.
type Status int

const (
	StatusIdle Status = iota
	StatusCountdown
	StatusRunning
	StatusPaused
	StatusOver
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCountdown:
		return "countdown"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusOver:
		return "over"
	default:
		return "unknown"
	}
}

// ErrInvalidState is returned when an operation is not allowed in the
// session's current status.
var ErrInvalidState = errors.New("engine: operation not allowed in current state")

// TapOutcome reports what a tap did.
type TapOutcome int

const (
	TapIgnored TapOutcome = iota // Not running, or the token is gone
	TapCorrect
	TapWrong
	TapHeart
	TapBonus
)

// StepResult is returned by Step.
type StepResult struct {
	Events []Event
	Over   bool
}

// Option configures a session.
type Option func(*Session)

// WithClock sets the wall clock used to timestamp the score record.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithGeneration tags the session with the host generation that created it.
func WithGeneration(gen uint64) Option {
	return func(s *Session) {
		s.generation = gen
	}
}

// Session is one game run. It is not safe for concurrent use: all calls must
// come from the goroutine driving the game loop.
//
// Time inside the session is a virtual clock advanced by Advance and Step.
// It only moves during Countdown and Running, so pausing freezes every
// pending tick, spawn and expiry.
type Session struct {
	mode       Mode
	difficulty config.Difficulty
	cfg        config.Config
	rt         core.RuntimeConfig
	generation uint64
	now        func() time.Time

	problems *ProblemGenerator
	spawner  *SpawnScheduler

	status Status
	clock  time.Duration

	countdownIndex int
	countdownNext  time.Duration

	score         int
	lives         int
	timeRemaining int
	level         int
	elapsedSec    int
	problem       Problem
	hasProblem    bool

	nextTick time.Duration
	tokens   []Token
	events   []Event
	record   *ScoreRecord
}

// NewSession creates an idle session. A zero rt.Seed seeds from the wall clock.
func NewSession(mode Mode, d config.Difficulty, cfg config.Config, rt core.RuntimeConfig, opts ...Option) *Session {
	seed := rt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Session{
		mode:       mode,
		difficulty: d,
		cfg:        cfg,
		rt:         rt,
		now:        time.Now,
		problems:   NewProblemGenerator(rng, cfg.Time.DivisionAt),
		spawner:    NewSpawnScheduler(ProfileFor(mode, d, cfg), rng),
		status:     StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}

	switch mode {
	case ModeTime:
		s.timeRemaining = cfg.Time.DurationSec
	case ModeSurvival:
		s.lives = cfg.Survival.Lives
	}
	s.level = s.deriveLevel()
	return s
}

// Start begins the countdown. Only valid from Idle.
func (s *Session) Start() error {
	if s.status != StatusIdle {
		return fmt.Errorf("engine: cannot start from %s: %w", s.status, ErrInvalidState)
	}

	steps := s.cfg.Countdown.Steps
	if len(steps) == 0 {
		s.beginRunning()
		return nil
	}

	s.setStatus(StatusCountdown)
	s.countdownIndex = 0
	s.countdownNext = s.clock + s.countdownStepDuration(0)
	s.emit(CountdownStep{Label: steps[0]})
	return nil
}

func (s *Session) countdownStepDuration(i int) time.Duration {
	c := s.cfg.Countdown
	if i == len(c.Steps)-1 {
		return time.Duration(c.GoMs) * time.Millisecond
	}
	return time.Duration(c.StepMs) * time.Millisecond
}

func (s *Session) advanceCountdown() {
	s.countdownIndex++
	if s.countdownIndex >= len(s.cfg.Countdown.Steps) {
		s.beginRunning()
		return
	}
	s.emit(CountdownStep{Label: s.cfg.Countdown.Steps[s.countdownIndex]})
	s.countdownNext += s.countdownStepDuration(s.countdownIndex)
}

// beginRunning generates the first problem before any token exists, so
// every token is evaluated against a current target.
func (s *Session) beginRunning() {
	s.setStatus(StatusRunning)
	s.updateLevel()
	s.newProblem()
	s.nextTick = s.clock + time.Second
	s.spawner.Arm(s.clock)
}

// Tap resolves a tap on a token. Taps outside Running and taps on tokens
// that are already gone are ignored.
func (s *Session) Tap(id core.TokenID) TapOutcome {
	if s.status != StatusRunning {
		return TapIgnored
	}
	i := slices.IndexFunc(s.tokens, func(t Token) bool { return t.ID == id })
	if i < 0 {
		return TapIgnored
	}

	tok := s.tokens[i]
	s.tokens = slices.Delete(s.tokens, i, i+1)
	s.emit(TokenRemoved{ID: id, Reason: RemovedTapped})

	kind, gain := tok.Kind, tok.Value
	if tok.CarriesHeart {
		kind, gain = TokenHeart, 1
	}

	switch kind {
	case TokenHeart:
		if s.mode == ModeSurvival {
			s.lives = min(s.lives+gain, s.cfg.Survival.MaxLives)
		}
		s.emit(LifeGained{Lives: s.lives})
		return TapHeart
	case TokenTimeBonus:
		if s.mode == ModeTime {
			s.timeRemaining += tok.Value
		}
		s.emit(TimeBonusCollected{Seconds: tok.Value})
		return TapBonus
	}

	if s.hasProblem && tok.Value == s.problem.Answer {
		reward := s.Reward()
		s.score += reward
		s.emit(CorrectTap{Token: tok, Reward: reward})
		s.updateLevel()
		s.newProblem()
		return TapCorrect
	}

	s.emit(WrongTap{Token: tok})
	if s.mode == ModeSurvival {
		s.loseLife()
	} else {
		s.score = max(0, s.score-s.cfg.Time.WrongTapPenalty)
	}
	return TapWrong
}

// Tick applies one elapsed running second. Advance calls it on schedule;
// it is exported for callers that drive seconds directly.
// The problem is regenerated at most once per tick.
func (s *Session) Tick() {
	if s.status != StatusRunning {
		return
	}
	s.elapsedSec++

	if s.mode == ModeTime {
		s.timeRemaining--
		if s.timeRemaining <= 0 {
			s.timeRemaining = 0
			s.end()
			return
		}
	}

	regenerate := s.updateLevel()
	switch s.mode {
	case ModeTime:
		if slices.Contains(s.cfg.Time.RefreshAt, s.timeRemaining) {
			regenerate = true
		}
	case ModeSurvival:
		if every := s.cfg.Survival.RefreshEverySec; every > 0 && s.elapsedSec%every == 0 {
			regenerate = true
		}
	}
	if regenerate {
		s.newProblem()
	}
}

// Pause freezes a running session and drops staggered spawns still pending.
func (s *Session) Pause() error {
	if s.status != StatusRunning {
		return fmt.Errorf("engine: cannot pause from %s: %w", s.status, ErrInvalidState)
	}
	s.spawner.Pause()
	s.setStatus(StatusPaused)
	return nil
}

// Resume continues a paused session without touching score, lives or time.
func (s *Session) Resume() error {
	if s.status != StatusPaused {
		return fmt.Errorf("engine: cannot resume from %s: %w", s.status, ErrInvalidState)
	}
	s.spawner.Resume()
	s.setStatus(StatusRunning)
	return nil
}

// TogglePause pauses a running session or resumes a paused one.
func (s *Session) TogglePause() error {
	if s.status == StatusPaused {
		return s.Resume()
	}
	return s.Pause()
}

// End moves the session to Over from any other state. It reports whether
// the session was ended by this call; ending twice is a no-op.
func (s *Session) End() bool {
	if s.status == StatusOver {
		return false
	}
	s.end()
	return true
}

func (s *Session) end() {
	s.spawner.Disarm()
	for _, t := range s.tokens {
		s.emit(TokenRemoved{ID: t.ID, Reason: RemovedSessionEnded})
	}
	s.tokens = nil
	s.setStatus(StatusOver)

	rec := NewScoreRecord(s.mode, s.difficulty, s.score, s.now())
	s.record = &rec
	s.emit(Finished{Record: rec})
}

type dueKind int

const (
	dueNone dueKind = iota
	dueCountdown
	dueExpiry
	dueTick
	dueSpawn
)

// Advance moves the session clock forward by dt, firing every countdown
// step, tick, spawn and expiry that falls inside the window in time order.
// It does nothing while Idle, Paused or Over.
func (s *Session) Advance(dt time.Duration) {
	if dt <= 0 || !s.clockRuns() {
		return
	}

	target := s.clock + dt
	for s.clockRuns() {
		at, kind := s.nextDue()
		if kind == dueNone || at > target {
			break
		}
		s.clock = max(s.clock, at)

		switch kind {
		case dueCountdown:
			s.advanceCountdown()
		case dueExpiry:
			s.expireDue()
		case dueTick:
			s.nextTick += time.Second
			s.Tick()
		case dueSpawn:
			for _, tok := range s.spawner.Fire(s.clock, s.spawnContext()) {
				s.tokens = append(s.tokens, tok)
				s.emit(TokenSpawned{Token: tok})
			}
		}
	}

	if s.clockRuns() {
		s.clock = target
	}
}

// Step is the fixed-rate driver: it applies the frame's input, then advances
// the clock by one tick, so tap effects are visible to the next tick.
func (s *Session) Step(in core.InputFrame) StepResult {
	if in.Has(core.ActionPause) && (s.status == StatusRunning || s.status == StatusPaused) {
		_ = s.TogglePause()
	}
	for _, id := range in.Taps {
		s.Tap(id)
	}
	s.Advance(s.rt.TickDuration())

	return StepResult{
		Events: s.DrainEvents(),
		Over:   s.status == StatusOver,
	}
}

func (s *Session) clockRuns() bool {
	return s.status == StatusCountdown || s.status == StatusRunning
}

// nextDue returns the earliest pending timer. Ties go to countdown, then
// expiry, then tick, then spawn.
func (s *Session) nextDue() (time.Duration, dueKind) {
	switch s.status {
	case StatusCountdown:
		return s.countdownNext, dueCountdown
	case StatusRunning:
	default:
		return 0, dueNone
	}

	at, kind := time.Duration(math.MaxInt64), dueNone
	for _, t := range s.tokens {
		if e := t.ExpiresAt(); e < at {
			at, kind = e, dueExpiry
		}
	}
	if s.nextTick < at {
		at, kind = s.nextTick, dueTick
	}
	if due, ok := s.spawner.NextDue(); ok && due < at {
		at, kind = due, dueSpawn
	}
	return at, kind
}

// expireDue removes every token whose lifetime has run out. In Survival an
// expired number token showing the target costs a life, unless it carries
// a heart.
func (s *Session) expireDue() {
	var expired []Token
	kept := s.tokens[:0]
	for _, t := range s.tokens {
		if t.ExpiresAt() <= s.clock {
			expired = append(expired, t)
			continue
		}
		kept = append(kept, t)
	}
	s.tokens = kept

	for _, t := range expired {
		s.emit(TokenRemoved{ID: t.ID, Reason: RemovedExpired})
	}
	for _, t := range expired {
		if s.status != StatusRunning {
			return
		}
		if s.mode == ModeSurvival && t.Kind == TokenNumber && !t.CarriesHeart && s.hasProblem && t.Value == s.problem.Answer {
			s.emit(MissedTarget{Token: t})
			s.loseLife()
		}
	}
}

func (s *Session) loseLife() {
	s.lives--
	if s.lives <= 0 {
		s.lives = 0
		s.end()
	}
}

func (s *Session) spawnContext() SpawnContext {
	return SpawnContext{
		Level:     s.level,
		Target:    s.problem.Answer,
		HasTarget: s.hasProblem,
		Lives:     s.lives,
	}
}

func (s *Session) deriveLevel() int {
	if s.mode == ModeTime {
		return TimeLevel(s.timeRemaining, s.cfg.Time.Levels)
	}
	return SurvivalLevel(s.score, s.cfg.Survival.Levels)
}

// updateLevel re-derives the level and reports whether it changed.
func (s *Session) updateLevel() bool {
	level := s.deriveLevel()
	if level == s.level {
		return false
	}
	s.emit(LevelChanged{From: s.level, To: level})
	s.level = level
	return true
}

func (s *Session) newProblem() {
	s.problem = s.problems.Generate(s.mode, s.level, s.timeRemaining)
	s.hasProblem = true
	s.emit(ProblemChanged{Problem: s.problem})
}

func (s *Session) setStatus(to Status) {
	from := s.status
	s.status = to
	s.emit(StateChanged{From: from, To: to})
}

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
}

// Reward returns the points a correct tap earns right now.
func (s *Session) Reward() int {
	if s.mode == ModeSurvival {
		return s.cfg.Survival.Reward
	}
	rewards := s.cfg.Time.Rewards
	if len(rewards) == 0 {
		return 1
	}
	return rewards[core.Clamp(s.level-1, 0, len(rewards)-1)]
}

// DrainEvents returns the events emitted since the last call.
func (s *Session) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

// Mode returns the session's game mode.
func (s *Session) Mode() Mode { return s.mode }

// Difficulty returns the session's difficulty.
func (s *Session) Difficulty() config.Difficulty { return s.difficulty }

// Generation returns the host generation the session was created with.
func (s *Session) Generation() uint64 { return s.generation }

// Status returns the current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Lives returns the lives left. Always 0 in Time Mode.
func (s *Session) Lives() int { return s.lives }

// TimeRemaining returns the seconds left. Always 0 in Survival Mode.
func (s *Session) TimeRemaining() int { return s.timeRemaining }

// Level returns the current level.
func (s *Session) Level() int { return s.level }

// Clock returns the session's virtual clock.
func (s *Session) Clock() time.Duration { return s.clock }

// Problem returns the current problem, if one has been generated.
func (s *Session) Problem() (Problem, bool) { return s.problem, s.hasProblem }

// Tokens returns a copy of the live tokens in spawn order.
func (s *Session) Tokens() []Token { return slices.Clone(s.tokens) }

// Record returns the score record once the session is over.
func (s *Session) Record() (ScoreRecord, bool) {
	if s.record == nil {
		return ScoreRecord{}, false
	}
	return *s.record, true
}

// CountdownLabel returns the label shown during the countdown.
func (s *Session) CountdownLabel() string {
	if s.status != StatusCountdown || s.countdownIndex >= len(s.cfg.Countdown.Steps) {
		return ""
	}
	return s.cfg.Countdown.Steps[s.countdownIndex]
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	Mode          Mode
	Difficulty    config.Difficulty
	Status        Status
	Generation    uint64
	Score         int
	Lives         int
	MaxLives      int
	TimeRemaining int
	ElapsedSec    int
	Level         int
	Problem       Problem
	HasProblem    bool
	Countdown     string
	Clock         time.Duration
	Tokens        []Token
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:          s.mode,
		Difficulty:    s.difficulty,
		Status:        s.status,
		Generation:    s.generation,
		Score:         s.score,
		Lives:         s.lives,
		TimeRemaining: s.timeRemaining,
		ElapsedSec:    s.elapsedSec,
		Level:         s.level,
		Problem:       s.problem,
		HasProblem:    s.hasProblem,
		Countdown:     s.CountdownLabel(),
		Clock:         s.clock,
		Tokens:        s.Tokens(),
	}
	if s.mode == ModeSurvival {
		snap.MaxLives = s.cfg.Survival.MaxLives
	}
	return snap
}
