package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"signtrack/internal/platform/clock"
	"signtrack/internal/platform/logger"
	"signtrack/internal/platform/store"
	asvc "signtrack/internal/services/analytics/service"
	psvc "signtrack/internal/services/progress/service"
	dom "signtrack/internal/services/tracker/domain"
)

// fakeDetector serves scripted samples
type fakeDetector struct {
	mu     sync.Mutex
	sample dom.Sample
	err    error
}

func (f *fakeDetector) Latest(_ context.Context) (dom.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sample, f.err
}

// fakeSink records pushed detections
type fakeSink struct {
	mu    sync.Mutex
	saved []string
	done  chan struct{}
}

func (f *fakeSink) SaveDetection(_ context.Context, label string, _ float64) error {
	f.mu.Lock()
	f.saved = append(f.saved, label)
	f.mu.Unlock()
	select {
	case f.done <- struct{}{}:
	default:
	}
	return nil
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type harness struct {
	svc      *Svc
	det      *fakeDetector
	sink     *fakeSink
	progress *psvc.Svc
	anl      *asvc.Svc
	clk      *clock.Fake
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clk := clock.NewFake(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	kv := store.NewMemKV()
	log := *logger.Named("tracker-test")

	progress := psvc.New(kv, clk, log, nil)
	anl := asvc.New(store.NewMemKV(), clk, log)
	det := &fakeDetector{}
	sink := &fakeSink{done: make(chan struct{}, 8)}

	svc := New(det, sink, progress, anl, clk, log, Config{})
	return &harness{svc: svc, det: det, sink: sink, progress: progress, anl: anl, clk: clk}
}

// apply drives the decision policy with the current generation
func (h *harness) apply(sample dom.Sample) {
	h.svc.mu.Lock()
	gen := h.svc.gen
	h.svc.mu.Unlock()
	h.svc.Apply(context.Background(), gen, sample)
}

func TestApply_BelowDisplayThresholdShowsNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.svc.Start()

	h.apply(dom.Sample{Label: "hello", Filipino: "kumusta", Confidence: 0.60})
	if d := h.svc.Display(); d.Detected {
		t.Fatalf("low confidence should show no detection, got %+v", d)
	}

	h.apply(dom.Sample{Confidence: 0.99}) // missing label
	if d := h.svc.Display(); d.Detected {
		t.Fatalf("missing label should show no detection, got %+v", d)
	}
}

func TestApply_DisplayWithoutCommit(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.svc.Start()

	// 0.76 shows but must never commit
	for i := 0; i < 5; i++ {
		h.apply(dom.Sample{Label: "hello", Filipino: "kumusta", Confidence: 0.76})
	}

	d := h.svc.Display()
	if !d.Detected || d.Label != "hello" || d.ConfidencePct != 76 {
		t.Fatalf("display = %+v", d)
	}
	if got := h.svc.Transcript(); len(got) != 0 {
		t.Fatalf("transcript should be empty, got %d entries", len(got))
	}
	st, _ := h.progress.Snapshot(context.Background())
	if st.XP != 0 {
		t.Fatalf("xp = %d, want 0", st.XP)
	}
}

func TestApply_CommitOnceWithSideEffects(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.svc.Start()
	ctx := context.Background()

	// 0.81 commits exactly once even across repeats and casing jitter
	h.apply(dom.Sample{Label: "Hello", Filipino: "kumusta", Confidence: 0.81})
	h.apply(dom.Sample{Label: "hello", Filipino: "kumusta", Confidence: 0.93})
	h.apply(dom.Sample{Label: "HELLO", Filipino: "kumusta", Confidence: 0.85})

	tr := h.svc.Transcript()
	if len(tr) != 1 {
		t.Fatalf("transcript entries = %d, want 1", len(tr))
	}
	if tr[0].Label != "Hello" || tr[0].ConfidencePct != 81 {
		t.Fatalf("entry = %+v", tr[0])
	}

	st, _ := h.progress.Snapshot(ctx)
	if st.XP != CommitXP {
		t.Fatalf("xp = %d, want %d", st.XP, CommitXP)
	}
	ast, _ := h.anl.Snapshot(ctx)
	if ast.TotalEvents != 1 || ast.CorrectEvents != 1 {
		t.Fatalf("analytics = %d/%d, want 1/1", ast.TotalEvents, ast.CorrectEvents)
	}

	select {
	case <-h.sink.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("detection push never fired")
	}
	if h.sink.count() != 1 {
		t.Fatalf("sink pushes = %d, want 1", h.sink.count())
	}
}

func TestClearTranscript_AllowsRecommit(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.svc.Start()

	h.apply(dom.Sample{Label: "thanks", Filipino: "salamat", Confidence: 0.88})
	if len(h.svc.Transcript()) != 1 {
		t.Fatalf("first commit missing")
	}

	h.svc.ClearTranscript()
	if len(h.svc.Transcript()) != 0 {
		t.Fatalf("transcript not cleared")
	}

	h.apply(dom.Sample{Label: "thanks", Filipino: "salamat", Confidence: 0.88})
	if len(h.svc.Transcript()) != 1 {
		t.Fatalf("recommit after clear failed")
	}

	st, _ := h.progress.Snapshot(context.Background())
	if st.XP != 2*CommitXP {
		t.Fatalf("xp = %d, want %d", st.XP, 2*CommitXP)
	}
}

func TestTranscript_CapNewestFirst(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.svc.Start()

	labels := []string{
		"a", "b", "c", "d", "e", "f", "g", "h", "i", "j",
		"k", "l", "m", "n", "o", "p", "q", "r", "s", "t",
		"u", "v", "w",
	}
	for _, l := range labels {
		h.apply(dom.Sample{Label: l, Confidence: 0.9})
		h.clk.Advance(time.Second)
	}

	tr := h.svc.Transcript()
	if len(tr) != dom.TranscriptCap {
		t.Fatalf("transcript length = %d, want %d", len(tr), dom.TranscriptCap)
	}
	if tr[0].Label != "w" {
		t.Fatalf("newest entry = %q, want w", tr[0].Label)
	}
	if tr[len(tr)-1].Label != "d" {
		t.Fatalf("oldest kept entry = %q, want d", tr[len(tr)-1].Label)
	}
}

func TestStop_DiscardsInFlightResponses(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.svc.Start()

	h.svc.mu.Lock()
	staleGen := h.svc.gen
	h.svc.mu.Unlock()

	h.svc.Stop()

	// a response from the stopped session must not change anything
	h.svc.Apply(context.Background(), staleGen, dom.Sample{Label: "yes", Confidence: 0.95})

	if d := h.svc.Display(); d.Detected {
		t.Fatalf("stale response changed display: %+v", d)
	}
	if len(h.svc.Transcript()) != 0 {
		t.Fatalf("stale response committed")
	}

	// restarting opens a new generation that does accept samples
	h.svc.Start()
	h.apply(dom.Sample{Label: "yes", Confidence: 0.95})
	if len(h.svc.Transcript()) != 1 {
		t.Fatalf("fresh session should commit")
	}
}

func TestRun_PollsWhileStarted(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.det.mu.Lock()
	h.det.sample = dom.Sample{Label: "no", Filipino: "hindi", Confidence: 0.9}
	h.det.mu.Unlock()

	h.svc.cfg.PollEvery = 5 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = h.svc.Run(ctx) }()

	h.svc.Start()

	deadline := time.After(2 * time.Second)
	for len(h.svc.Transcript()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("poll loop never committed")
		case <-time.After(5 * time.Millisecond):
		}
	}

	h.svc.Stop()
	if h.svc.Running() {
		t.Fatalf("still running after Stop")
	}
}
