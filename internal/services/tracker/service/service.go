// Package service implements the detection poller state machine
package service

import (
	"context"
	"math"
	"sync"
	"time"

	"signtrack/internal/platform/clock"
	"signtrack/internal/platform/logger"
	adom "signtrack/internal/services/analytics/domain"
	pdom "signtrack/internal/services/progress/domain"
	dom "signtrack/internal/services/tracker/domain"
)

// CommitXP is awarded per newly committed sign
const CommitXP = 10

// Config for the tracker service
type Config struct {
	// PollEvery is the tick cadence while Polling
	PollEvery time.Duration
	// QueryTimeout bounds one detector round trip
	QueryTimeout time.Duration
}

// Svc is the poller; Idle/Polling transitions and all display state are
// guarded by mu, and gen invalidates responses that outlive a session
type Svc struct {
	detector  dom.DetectorPort
	sink      dom.SinkPort
	progress  pdom.ProgressPort
	analytics adom.AnalyticsPort
	clk       clock.Clock
	log       logger.Logger
	cfg       Config

	mu         sync.Mutex
	running    bool
	gen        uint64
	display    dom.Display
	transcript []dom.Entry
	seen       map[string]struct{}
}

// New constructs the tracker service
func New(
	detector dom.DetectorPort,
	sink dom.SinkPort,
	progress pdom.ProgressPort,
	analytics adom.AnalyticsPort,
	clk clock.Clock,
	log logger.Logger,
	cfg Config,
) *Svc {
	if detector == nil || progress == nil || analytics == nil {
		panic("tracker service: nil port")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 300 * time.Millisecond
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 2 * time.Second
	}
	return &Svc{
		detector:  detector,
		sink:      sink,
		progress:  progress,
		analytics: analytics,
		clk:       clk,
		log:       log,
		cfg:       cfg,
		seen:      map[string]struct{}{},
	}
}

// Start implements domain.TrackerPort
func (s *Svc) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.gen++
}

// Stop implements domain.TrackerPort
// bumping gen makes any in-flight query result a no-op when it lands
func (s *Svc) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	s.display = dom.NoDetection()
}

// Running implements domain.TrackerPort
func (s *Svc) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Display implements domain.TrackerPort
func (s *Svc) Display() dom.Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// Transcript implements domain.TrackerPort
func (s *Svc) Transcript() []dom.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dom.Entry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// ClearTranscript implements domain.TrackerPort
func (s *Svc) ClearTranscript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	s.seen = map[string]struct{}{}
}

// Run drives the poll loop until ctx ends
// each tick launches its own query goroutine so a slow detector never
// stalls the cadence; overlapping responses apply last-wins
func (s *Svc) Run(ctx context.Context) error {
	t := time.NewTicker(s.cfg.PollEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.mu.Lock()
			running, gen := s.running, s.gen
			s.mu.Unlock()
			if !running {
				continue
			}
			go s.pollOnce(ctx, gen)
		}
	}
}

// pollOnce issues one detector query and applies the outcome
func (s *Svc) pollOnce(ctx context.Context, gen uint64) {
	qctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	sample, err := s.detector.Latest(qctx)
	if err != nil {
		// network trouble reads as "no detection" until the next tick
		s.log.Warn().Err(err).Msg("detector query failed")
		sample = dom.Sample{}
	}
	s.Apply(ctx, gen, sample)
}

// Apply folds one sample into the poller state
// exported so transport-free tests can drive the decision policy directly
func (s *Svc) Apply(ctx context.Context, gen uint64, sample dom.Sample) {
	s.mu.Lock()

	// the session this query belonged to is gone; drop the response
	if gen != s.gen || !s.running {
		s.mu.Unlock()
		return
	}

	if !sample.Detected() {
		s.display = dom.NoDetection()
		s.mu.Unlock()
		return
	}

	pct := int(math.Round(sample.Confidence * 100))
	s.display = dom.Display{
		Detected:      true,
		Label:         sample.Label,
		Filipino:      sample.Filipino,
		ConfidencePct: pct,
	}

	key := dom.Canonical(sample.Label)
	if sample.Confidence < dom.CommitThreshold {
		s.mu.Unlock()
		return
	}
	if _, dup := s.seen[key]; dup {
		s.mu.Unlock()
		return
	}
	s.seen[key] = struct{}{}

	entry := dom.Entry{
		Label:         sample.Label,
		Filipino:      sample.Filipino,
		ConfidencePct: pct,
		At:            s.clk.Now(),
	}
	s.transcript = append([]dom.Entry{entry}, s.transcript...)
	if len(s.transcript) > dom.TranscriptCap {
		s.transcript = s.transcript[:dom.TranscriptCap]
	}
	s.mu.Unlock()

	s.commit(ctx, sample)
}

// commit runs the side effects of a newly seen sign outside the state lock
func (s *Svc) commit(ctx context.Context, sample dom.Sample) {
	if _, err := s.progress.AddXP(ctx, CommitXP); err != nil {
		s.log.Warn().Err(err).Msg("commit xp award failed")
	}
	if err := s.analytics.TrackEvent(ctx, true); err != nil {
		s.log.Warn().Err(err).Msg("commit analytics event failed")
	}

	if s.sink == nil {
		return
	}
	// fire and forget; the next commit is the only retry
	go func(label string, conf float64) {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.sink.SaveDetection(sctx, label, conf); err != nil {
			s.log.Warn().Err(err).Str("sign", label).Msg("detection log push failed")
		}
	}(sample.Label, sample.Confidence)
}
