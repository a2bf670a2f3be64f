// Package service implements the progression engine over the local state store
package service

import (
	"context"
	"encoding/json"
	"sync"

	"signtrack/internal/platform/clock"
	"signtrack/internal/platform/logger"
	"signtrack/internal/platform/store"
	dom "signtrack/internal/services/progress/domain"
)

// stateKey is the record this engine owns; nothing else writes it
const stateKey = "progress"

// Config for the progress service
type Config struct {
	// XPPerLevel is fixed at 100 by the level formula; kept visible for tests
	XPPerLevel int
}

// Svc owns the progression record; every mutation is an atomic
// read-modify-write under mu
type Svc struct {
	kv    store.KV
	clk   clock.Clock
	log   logger.Logger
	onLvl dom.LevelUpFunc

	mu sync.Mutex
}

// New constructs the progress service
// onLevelUp may be nil when nobody listens
func New(kv store.KV, clk clock.Clock, log logger.Logger, onLevelUp dom.LevelUpFunc) *Svc {
	if kv == nil {
		panic("progress service: nil KV")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Svc{kv: kv, clk: clk, log: log, onLvl: onLevelUp}
}

// Snapshot implements domain.ProgressPort
func (s *Svc) Snapshot(ctx context.Context) (dom.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

// AddXP implements domain.ProgressPort
func (s *Svc) AddXP(ctx context.Context, amount int) (dom.State, error) {
	s.mu.Lock()
	st := s.load(ctx)
	prev := st.Level
	st.XP += amount
	if st.XP < 0 {
		st.XP = 0
	}
	st.Level = dom.LevelFor(st.XP)
	err := s.persist(ctx, st)
	s.mu.Unlock()

	if err != nil {
		return st, err
	}
	if st.Level > prev && s.onLvl != nil {
		s.onLvl(ctx, prev, st.Level)
	}
	return st, nil
}

// RecomputeStreak implements domain.ProgressPort
//
// Same calendar day is a no-op so repeated calls within a session are
// idempotent; the exact next day extends the streak; anything else (gap,
// clock skew backwards, first run) resets to 1. LastActive always becomes
// today.
func (s *Svc) RecomputeStreak(ctx context.Context) (dom.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(ctx)
	today := clock.Today(s.clk)

	switch {
	case st.StreakDays > 0 && st.LastActive == today:
		// already counted today
	case st.StreakDays > 0 && clock.DaysBetween(st.LastActive, today) == 1:
		st.StreakDays++
	default:
		st.StreakDays = 1
	}
	st.LastActive = today

	return st, s.persist(ctx, st)
}

// load reads the record, falling back to defaults on absence or corruption
// the level is always re-derived from xp, never trusted from disk
func (s *Svc) load(ctx context.Context) dom.State {
	today := clock.Today(s.clk)

	raw, ok, err := s.kv.Get(ctx, stateKey)
	if err != nil || !ok {
		if err != nil {
			s.log.Debug().Err(err).Msg("progress state read failed using defaults")
		}
		return dom.Defaults(today)
	}

	var st dom.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.log.Debug().Err(err).Msg("progress state corrupt using defaults")
		return dom.Defaults(today)
	}
	if st.XP < 0 {
		st.XP = 0
	}
	st.Level = dom.LevelFor(st.XP)
	if st.LastActive.IsZero() {
		st.LastActive = today
	}
	return st
}

func (s *Svc) persist(ctx context.Context, st dom.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, stateKey, string(b)); err != nil {
		s.log.Warn().Err(err).Msg("progress state write failed")
		return err
	}
	return nil
}
