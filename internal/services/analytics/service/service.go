// Package service implements the analytics engine over the local state store
package service

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"signtrack/internal/platform/clock"
	"signtrack/internal/platform/logger"
	"signtrack/internal/platform/store"
	dom "signtrack/internal/services/analytics/domain"
)

// stateKey is the record this engine owns; nothing else writes it
const stateKey = "analytics"

// chartDays is the fixed chart window
const chartDays = 7

// chartFloor keeps all-zero or tiny series from scaling to full-height bars
const chartFloor = 10

// Svc owns the analytics record; every mutation is an atomic
// read-modify-write under mu
type Svc struct {
	kv  store.KV
	clk clock.Clock
	log logger.Logger

	mu sync.Mutex
	// sessionStart is in-memory only so a restart never counts idle time
	sessionStart time.Time
}

// New constructs the analytics service; the practice session starts now
func New(kv store.KV, clk clock.Clock, log logger.Logger) *Svc {
	if kv == nil {
		panic("analytics service: nil KV")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Svc{kv: kv, clk: clk, log: log, sessionStart: clk.Now()}
}

// TrackEvent implements domain.AnalyticsPort
func (s *Svc) TrackEvent(ctx context.Context, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(ctx)
	st.TotalEvents++
	if correct {
		st.CorrectEvents++
	}
	st.DailyCounts[clock.Today(s.clk)]++
	return s.persist(ctx, st)
}

// FlushPracticeTime implements domain.AnalyticsPort
// driven by a single 60s ticker so calls never overlap, but the mutex keeps
// it safe against concurrent TrackEvent anyway
func (s *Svc) FlushPracticeTime(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	elapsed := int(now.Sub(s.sessionStart).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	s.sessionStart = now

	if elapsed == 0 {
		return nil
	}
	st := s.load(ctx)
	st.PracticeSeconds += elapsed
	return s.persist(ctx, st)
}

// Snapshot implements domain.AnalyticsPort
func (s *Svc) Snapshot(ctx context.Context) (dom.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

// AccuracyPercent implements domain.AnalyticsPort
func (s *Svc) AccuracyPercent(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(ctx)
	if st.TotalEvents == 0 {
		return 0, nil
	}
	return int(math.Round(float64(st.CorrectEvents) / float64(st.TotalEvents) * 100)), nil
}

// LastNDaysSeries implements domain.AnalyticsPort
func (s *Svc) LastNDaysSeries(ctx context.Context, n int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		return nil, nil
	}
	st := s.load(ctx)
	return seriesFrom(st, clock.Today(s.clk), n), nil
}

// ChartData implements domain.AnalyticsPort
func (s *Svc) ChartData(ctx context.Context) ([]dom.Bar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(ctx)
	today := clock.Today(s.clk)
	series := seriesFrom(st, today, chartDays)

	max := chartFloor
	for _, v := range series {
		if v > max {
			max = v
		}
	}

	bars := make([]dom.Bar, chartDays)
	for i, v := range series {
		day := today.AddDays(i - (chartDays - 1))
		bars[i] = dom.Bar{
			Label:     day.Weekday(),
			HeightPct: int(math.Round(float64(v) / float64(max) * 100)),
			Count:     v,
		}
	}
	return bars, nil
}

// seriesFrom builds n buckets ending at today, oldest first, missing days 0
func seriesFrom(st dom.State, today clock.Date, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = st.DailyCounts[today.AddDays(i-(n-1))]
	}
	return out
}

// load reads the record, falling back to defaults on absence or corruption
func (s *Svc) load(ctx context.Context) dom.State {
	raw, ok, err := s.kv.Get(ctx, stateKey)
	if err != nil || !ok {
		if err != nil {
			s.log.Debug().Err(err).Msg("analytics state read failed using defaults")
		}
		return dom.Defaults()
	}

	var st dom.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.log.Debug().Err(err).Msg("analytics state corrupt using defaults")
		return dom.Defaults()
	}
	if st.DailyCounts == nil {
		st.DailyCounts = map[clock.Date]int{}
	}
	if st.CorrectEvents > st.TotalEvents {
		st.CorrectEvents = st.TotalEvents
	}
	return st
}

func (s *Svc) persist(ctx context.Context, st dom.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, stateKey, string(b)); err != nil {
		s.log.Warn().Err(err).Msg("analytics state write failed")
		return err
	}
	return nil
}
