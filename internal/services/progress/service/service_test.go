package service

import (
	"context"
	"testing"
	"time"

	"signtrack/internal/platform/clock"
	"signtrack/internal/platform/logger"
	"signtrack/internal/platform/store"
	dom "signtrack/internal/services/progress/domain"
)

func newSvc(t *testing.T, clk clock.Clock, onLvl dom.LevelUpFunc) (*Svc, store.KV) {
	t.Helper()
	kv := store.NewMemKV()
	return New(kv, clk, *logger.Named("progress-test"), onLvl), kv
}

func fakeAt(day string) *clock.Fake {
	t, err := time.Parse(time.DateOnly, day)
	if err != nil {
		panic(err)
	}
	return clock.NewFake(t.Add(9 * time.Hour))
}

func TestSnapshot_DefaultsWhenAbsent(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, _ := newSvc(t, clk, nil)

	st, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	want := dom.Defaults(clock.Today(clk))
	if st != want {
		t.Fatalf("defaults = %+v, want %+v", st, want)
	}
}

func TestSnapshot_CorruptRecordFallsBack(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, kv := newSvc(t, clk, nil)
	if err := kv.Put(context.Background(), "progress", `{"xp": "not a number"`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	st, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if st != dom.Defaults(clock.Today(clk)) {
		t.Fatalf("corrupt record should yield defaults, got %+v", st)
	}
}

func TestAddXP_LevelFormulaAndPersistence(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, _ := newSvc(t, clk, nil)
	ctx := context.Background()

	cases := []struct {
		add       int
		wantXP    int
		wantLevel int
	}{
		{add: 10, wantXP: 10, wantLevel: 1},
		{add: 89, wantXP: 99, wantLevel: 1},
		{add: 1, wantXP: 100, wantLevel: 2},
		{add: 150, wantXP: 250, wantLevel: 3},
	}
	for i, c := range cases {
		st, err := s.AddXP(ctx, c.add)
		if err != nil {
			t.Fatalf("case %d AddXP: %v", i, err)
		}
		if st.XP != c.wantXP || st.Level != c.wantLevel {
			t.Fatalf("case %d: got xp=%d level=%d, want xp=%d level=%d", i, st.XP, st.Level, c.wantXP, c.wantLevel)
		}
	}
}

func TestAddXP_FromEmpty250(t *testing.T) {
	t.Parallel()

	s, _ := newSvc(t, fakeAt("2026-03-10"), nil)
	st, err := s.AddXP(context.Background(), 250)
	if err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if st.XP != 250 || st.Level != 3 {
		t.Fatalf("got xp=%d level=%d, want 250/3", st.XP, st.Level)
	}
	if f := dom.Fraction(st.XP, st.Level); f != 0.5 {
		t.Fatalf("fraction = %v, want 0.5", f)
	}
}

func TestAddXP_EmitsLevelUp(t *testing.T) {
	t.Parallel()

	var from, to int
	s, _ := newSvc(t, fakeAt("2026-03-10"), func(_ context.Context, f, tt int) { from, to = f, tt })
	ctx := context.Background()

	if _, err := s.AddXP(ctx, 50); err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if from != 0 || to != 0 {
		t.Fatalf("no boundary crossed yet, got %d->%d", from, to)
	}

	if _, err := s.AddXP(ctx, 60); err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if from != 1 || to != 2 {
		t.Fatalf("level up = %d->%d, want 1->2", from, to)
	}
}

func TestRecomputeStreak_Rules(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, _ := newSvc(t, clk, nil)
	ctx := context.Background()

	// first run
	st, err := s.RecomputeStreak(ctx)
	if err != nil {
		t.Fatalf("RecomputeStreak: %v", err)
	}
	if st.StreakDays != 1 {
		t.Fatalf("first run streak = %d, want 1", st.StreakDays)
	}

	// same day is idempotent
	st, _ = s.RecomputeStreak(ctx)
	st, _ = s.RecomputeStreak(ctx)
	if st.StreakDays != 1 {
		t.Fatalf("same day streak = %d, want 1", st.StreakDays)
	}

	// next day extends
	clk.Advance(24 * time.Hour)
	st, _ = s.RecomputeStreak(ctx)
	if st.StreakDays != 2 {
		t.Fatalf("next day streak = %d, want 2", st.StreakDays)
	}

	// a gap resets
	clk.Advance(48 * time.Hour)
	st, _ = s.RecomputeStreak(ctx)
	if st.StreakDays != 1 {
		t.Fatalf("post-gap streak = %d, want 1", st.StreakDays)
	}
	if st.LastActive != clock.Today(clk) {
		t.Fatalf("LastActive = %v, want today", st.LastActive)
	}
}

func TestFraction_Bounds(t *testing.T) {
	t.Parallel()

	if f := dom.Fraction(100, 2); f != 0 {
		t.Fatalf("fraction at band start = %v, want 0", f)
	}
	if f := dom.Fraction(150, 2); f != 0.5 {
		t.Fatalf("fraction mid band = %v, want 0.5", f)
	}
	// inconsistent inputs clamp instead of escaping [0,1]
	if f := dom.Fraction(500, 2); f != 1 {
		t.Fatalf("fraction clamped high = %v, want 1", f)
	}
	if f := dom.Fraction(0, 3); f != 0 {
		t.Fatalf("fraction clamped low = %v, want 0", f)
	}
}

func TestLevelFor_Formula(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 1, 99: 1, 100: 2, 199: 2, 200: 3, 1000: 11}
	for xp, want := range cases {
		if got := dom.LevelFor(xp); got != want {
			t.Fatalf("LevelFor(%d) = %d, want %d", xp, got, want)
		}
	}
}
