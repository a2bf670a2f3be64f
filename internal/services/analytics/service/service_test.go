package service

import (
	"context"
	"testing"
	"time"

	"signtrack/internal/platform/clock"
	"signtrack/internal/platform/logger"
	"signtrack/internal/platform/store"
)

func newSvc(t *testing.T, clk clock.Clock) (*Svc, store.KV) {
	t.Helper()
	kv := store.NewMemKV()
	return New(kv, clk, *logger.Named("analytics-test")), kv
}

func fakeAt(day string) *clock.Fake {
	tm, err := time.Parse(time.DateOnly, day)
	if err != nil {
		panic(err)
	}
	return clock.NewFake(tm.Add(12 * time.Hour))
}

func TestAccuracyPercent(t *testing.T) {
	t.Parallel()

	s, _ := newSvc(t, fakeAt("2026-03-10"))
	ctx := context.Background()

	got, err := s.AccuracyPercent(ctx)
	if err != nil || got != 0 {
		t.Fatalf("empty accuracy = %d err=%v, want 0", got, err)
	}

	for i := 0; i < 7; i++ {
		if err := s.TrackEvent(ctx, true); err != nil {
			t.Fatalf("TrackEvent: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := s.TrackEvent(ctx, false); err != nil {
			t.Fatalf("TrackEvent: %v", err)
		}
	}

	got, err = s.AccuracyPercent(ctx)
	if err != nil {
		t.Fatalf("AccuracyPercent: %v", err)
	}
	if got != 70 {
		t.Fatalf("accuracy = %d, want 70", got)
	}
}

func TestTrackEvent_CountsAndDailyBuckets(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, _ := newSvc(t, clk)
	ctx := context.Background()

	_ = s.TrackEvent(ctx, true)
	_ = s.TrackEvent(ctx, false)
	clk.Advance(24 * time.Hour)
	_ = s.TrackEvent(ctx, true)

	st, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if st.TotalEvents != 3 || st.CorrectEvents != 2 {
		t.Fatalf("totals = %d/%d, want 3/2", st.TotalEvents, st.CorrectEvents)
	}
	day1 := clock.Today(clk).AddDays(-1)
	if st.DailyCounts[day1] != 2 || st.DailyCounts[clock.Today(clk)] != 1 {
		t.Fatalf("daily buckets = %v", st.DailyCounts)
	}
}

func TestLastNDaysSeries_MissingDaysZero(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, _ := newSvc(t, clk)
	ctx := context.Background()

	// five events yesterday, nothing today or the day before
	clk.Advance(-24 * time.Hour)
	for i := 0; i < 5; i++ {
		_ = s.TrackEvent(ctx, true)
	}
	clk.Advance(24 * time.Hour)

	got, err := s.LastNDaysSeries(ctx, 3)
	if err != nil {
		t.Fatalf("LastNDaysSeries: %v", err)
	}
	want := []int{0, 5, 0}
	if len(got) != len(want) {
		t.Fatalf("series = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("series = %v, want %v", got, want)
		}
	}
}

func TestChartData_FloorNormalization(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, _ := newSvc(t, clk)
	ctx := context.Background()

	// 5 events today; floor of 10 means 50 percent, not full height
	for i := 0; i < 5; i++ {
		_ = s.TrackEvent(ctx, true)
	}

	bars, err := s.ChartData(ctx)
	if err != nil {
		t.Fatalf("ChartData: %v", err)
	}
	if len(bars) != 7 {
		t.Fatalf("bars = %d, want 7", len(bars))
	}
	last := bars[6]
	if last.Count != 5 || last.HeightPct != 50 {
		t.Fatalf("today bar = %+v, want count 5 height 50", last)
	}
	if last.Label != clock.Today(clk).Weekday() {
		t.Fatalf("label = %q", last.Label)
	}
	for _, b := range bars[:6] {
		if b.Count != 0 || b.HeightPct != 0 {
			t.Fatalf("empty day bar = %+v", b)
		}
	}
}

func TestChartData_ScalesAgainstMax(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, _ := newSvc(t, clk)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_ = s.TrackEvent(ctx, true)
	}
	clk.Advance(24 * time.Hour)
	for i := 0; i < 5; i++ {
		_ = s.TrackEvent(ctx, true)
	}

	bars, err := s.ChartData(ctx)
	if err != nil {
		t.Fatalf("ChartData: %v", err)
	}
	if bars[5].HeightPct != 100 {
		t.Fatalf("max day height = %d, want 100", bars[5].HeightPct)
	}
	if bars[6].HeightPct != 25 {
		t.Fatalf("today height = %d, want 25", bars[6].HeightPct)
	}
}

func TestFlushPracticeTime(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, _ := newSvc(t, clk)
	ctx := context.Background()

	clk.Advance(90 * time.Second)
	if err := s.FlushPracticeTime(ctx); err != nil {
		t.Fatalf("FlushPracticeTime: %v", err)
	}
	st, _ := s.Snapshot(ctx)
	if st.PracticeSeconds != 90 {
		t.Fatalf("practice seconds = %d, want 90", st.PracticeSeconds)
	}

	// immediate re-flush adds nothing
	if err := s.FlushPracticeTime(ctx); err != nil {
		t.Fatalf("FlushPracticeTime: %v", err)
	}
	st, _ = s.Snapshot(ctx)
	if st.PracticeSeconds != 90 {
		t.Fatalf("practice seconds after no-op flush = %d, want 90", st.PracticeSeconds)
	}

	clk.Advance(60 * time.Second)
	_ = s.FlushPracticeTime(ctx)
	st, _ = s.Snapshot(ctx)
	if st.PracticeSeconds != 150 {
		t.Fatalf("practice seconds = %d, want 150", st.PracticeSeconds)
	}
}

func TestLoad_CorruptRecordFallsBack(t *testing.T) {
	t.Parallel()

	clk := fakeAt("2026-03-10")
	s, kv := newSvc(t, clk)
	ctx := context.Background()

	if err := kv.Put(ctx, "analytics", "not json at all"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	st, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if st.TotalEvents != 0 || len(st.DailyCounts) != 0 {
		t.Fatalf("corrupt record should yield defaults, got %+v", st)
	}
}
