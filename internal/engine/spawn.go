package engine

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/vovakirdan/balloonmath/internal/config"
	"github.com/vovakirdan/balloonmath/internal/core"
)

// SpawnProfile is the mode-specific parameter set of the spawn scheduler.
type SpawnProfile struct {
	Spawn config.SpawnConfig
	Speed float64 // Difficulty speed multiplier

	// TimeBonus tokens, Time Mode.
	BonusChance   float64
	BonusSeconds  int
	BonusLifetime time.Duration

	// Heart tokens, Survival Mode.
	HeartChance         float64
	LowLivesHeartChance float64
	HeartCarrierChance  float64 // Chance that a number balloon carries a heart
	HeartLifetime       time.Duration
	ForcedHeartEvery    time.Duration // Zero disables forced hearts
	ForcedHeartLifetime time.Duration
	MaxLives            int
}

// ProfileFor builds the spawn profile of a mode and difficulty.
func ProfileFor(mode Mode, d config.Difficulty, cfg config.Config) SpawnProfile {
	if mode == ModeTime {
		speed := cfg.Time.Speed.For(d)
		return SpawnProfile{
			Spawn:         cfg.Time.Spawn,
			Speed:         speed,
			BonusChance:   cfg.Time.Bonus.Chance.For(d),
			BonusSeconds:  cfg.Time.Bonus.Seconds,
			BonusLifetime: scaled(cfg.Time.Bonus.LifetimeMs, speed),
		}
	}

	speed := cfg.Survival.Speed.For(d)
	h := cfg.Survival.Heart
	return SpawnProfile{
		Spawn:               cfg.Survival.Spawn,
		Speed:               speed,
		HeartChance:         h.Chance.For(d),
		LowLivesHeartChance: h.LowLivesChance.For(d),
		HeartCarrierChance:  h.CarrierChance,
		HeartLifetime:       scaled(h.LifetimeMs, speed),
		ForcedHeartEvery:    time.Duration(h.ForcedEverySec) * time.Second,
		ForcedHeartLifetime: scaled(h.ForcedLifetimeMs, speed),
		MaxLives:            cfg.Survival.MaxLives,
	}
}

// scaled converts a speed-1 duration in milliseconds to the actual duration.
func scaled(ms int, speed float64) time.Duration {
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(float64(ms) / speed * float64(time.Millisecond))
}

// SpawnContext is the session state a spawn depends on.
type SpawnContext struct {
	Level     int
	Target    int
	HasTarget bool
	Lives     int
}

// SpawnScheduler creates batches of falling tokens on a fixed interval.
// It keeps no clock of its own: the session asks when the next spawn is due
// and fires it once its clock reaches that point.
type SpawnScheduler struct {
	profile SpawnProfile
	rng     *rand.Rand

	nextID     core.TokenID
	armed      bool
	nextBatch  time.Duration
	nextForced time.Duration
	pending    []time.Duration // Staggered number spawns, ascending
}

// NewSpawnScheduler creates a disarmed scheduler.
func NewSpawnScheduler(profile SpawnProfile, rng *rand.Rand) *SpawnScheduler {
	return &SpawnScheduler{profile: profile, rng: rng}
}

// Interval returns the time between batches.
func (s *SpawnScheduler) Interval() time.Duration {
	return scaled(s.profile.Spawn.IntervalMs, s.profile.Speed)
}

// Arm starts spawning. The first batch is due immediately at now.
func (s *SpawnScheduler) Arm(now time.Duration) {
	s.armed = true
	s.nextBatch = now
	s.pending = s.pending[:0]
	if s.profile.ForcedHeartEvery > 0 {
		s.nextForced = now + s.profile.ForcedHeartEvery
	}
}

// Pause halts spawning and drops staggered spawns still pending.
// The batch schedule is kept; the session clock is frozen while paused.
func (s *SpawnScheduler) Pause() {
	s.armed = false
	s.pending = s.pending[:0]
}

// Resume re-arms the scheduler without resetting its schedule.
func (s *SpawnScheduler) Resume() {
	s.armed = true
}

// Disarm stops the scheduler for good.
func (s *SpawnScheduler) Disarm() {
	s.armed = false
	s.pending = nil
}

// Armed reports whether the scheduler is spawning.
func (s *SpawnScheduler) Armed() bool {
	return s.armed
}

// Pending returns the number of staggered spawns not yet fired.
func (s *SpawnScheduler) Pending() int {
	return len(s.pending)
}

// NextDue returns the earliest time at which Fire has work to do.
func (s *SpawnScheduler) NextDue() (time.Duration, bool) {
	if !s.armed {
		return 0, false
	}
	due := s.nextBatch
	if len(s.pending) > 0 && s.pending[0] < due {
		due = s.pending[0]
	}
	if s.profile.ForcedHeartEvery > 0 && s.nextForced < due {
		due = s.nextForced
	}
	return due, true
}

// Fire spawns everything that is due at or before now and returns the new
// tokens in spawn order.
func (s *SpawnScheduler) Fire(now time.Duration, ctx SpawnContext) []Token {
	var out []Token
	for {
		due, ok := s.NextDue()
		if !ok || due > now {
			return out
		}

		switch {
		case len(s.pending) > 0 && s.pending[0] == due:
			out = append(out, s.numberToken(due, ctx))
			s.pending = s.pending[1:]
		case s.nextBatch == due:
			out = append(out, s.batch(due, ctx)...)
			s.nextBatch += max(s.Interval(), time.Millisecond)
		default:
			out = append(out, s.newToken(TokenHeart, 1, due, s.profile.ForcedHeartLifetime))
			s.nextForced += s.profile.ForcedHeartEvery
		}
	}
}

// BatchSize returns the number of number tokens in a batch at a level,
// before jitter.
func (s *SpawnScheduler) BatchSize(level int) int {
	sp := s.profile.Spawn
	n := sp.BatchBase + int(math.Floor(float64(level)*sp.BatchPerLevel))
	return core.Clamp(n, 2, max(sp.BatchMax, 2))
}

func (s *SpawnScheduler) batch(at time.Duration, ctx SpawnContext) []Token {
	sp := s.profile.Spawn

	count := s.BatchSize(ctx.Level)
	if sp.BatchJitter > 0 {
		count = core.Clamp(count+s.rng.Intn(sp.BatchJitter+1), 2, max(sp.BatchMax, 2))
	}

	out := make([]Token, 0, count+1)
	stagger := scaled(sp.StaggerMs, s.profile.Speed)
	for i := 0; i < count; i++ {
		if i == 0 || stagger <= 0 {
			out = append(out, s.numberToken(at, ctx))
			continue
		}
		s.pending = append(s.pending, at+time.Duration(i)*stagger)
	}
	slices.Sort(s.pending)

	if s.profile.BonusChance > 0 && s.rng.Float64() < s.profile.BonusChance {
		out = append(out, s.newToken(TokenTimeBonus, s.profile.BonusSeconds, at, s.profile.BonusLifetime))
	}

	if chance := s.heartChance(ctx.Lives); chance > 0 && s.rng.Float64() < chance {
		out = append(out, s.newToken(TokenHeart, 1, at, s.profile.HeartLifetime))
	}

	return out
}

func (s *SpawnScheduler) heartChance(lives int) float64 {
	if s.profile.MaxLives <= 0 {
		return 0
	}
	if lives < s.profile.MaxLives {
		return s.profile.LowLivesHeartChance
	}
	return s.profile.HeartChance
}

func (s *SpawnScheduler) numberToken(at time.Duration, ctx SpawnContext) Token {
	tok := s.newToken(TokenNumber, s.numberValue(ctx), at, s.Lifetime(ctx.Level))
	tok.Color = core.BalloonColors[s.rng.Intn(len(core.BalloonColors))]
	if s.profile.HeartCarrierChance > 0 {
		tok.CarriesHeart = s.rng.Float64() < s.profile.HeartCarrierChance
	}
	return tok
}

// numberValue picks the target with the configured chance, otherwise a
// distractor that never equals the target.
func (s *SpawnScheduler) numberValue(ctx SpawnContext) int {
	sp := s.profile.Spawn
	if ctx.HasTarget && s.rng.Float64() < sp.TargetChance {
		return ctx.Target
	}

	hi := max(sp.DistractorMaxFor(ctx.Level), 1)
	v := s.rng.Intn(hi + 1)
	if ctx.HasTarget && v == ctx.Target {
		v = (v + 1 + s.rng.Intn(hi)) % (hi + 1)
	}
	return v
}

// Lifetime returns the fall time of a number token spawned at a level.
func (s *SpawnScheduler) Lifetime(level int) time.Duration {
	sp := s.profile.Spawn
	ms := sp.LifetimeMs - level*sp.LifetimeStepMs
	if sp.LifetimeJitterMs > 0 {
		ms += s.rng.Intn(sp.LifetimeJitterMs + 1)
	}
	return max(scaled(ms, s.profile.Speed), scaled(sp.MinLifetimeMs, s.profile.Speed))
}

func (s *SpawnScheduler) newToken(kind TokenKind, value int, at, lifetime time.Duration) Token {
	s.nextID++
	return Token{
		ID:        s.nextID,
		Kind:      kind,
		Value:     value,
		X:         s.rng.Float64(),
		SpawnedAt: at,
		Lifetime:  lifetime,
	}
}
