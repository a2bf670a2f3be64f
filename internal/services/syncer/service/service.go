// Package service implements the advisory progress sync pusher
package service

import (
	"context"
	"time"

	"signtrack/internal/platform/logger"
	pdom "signtrack/internal/services/progress/domain"
)

// PusherPort delivers a progress snapshot to the hub
type PusherPort interface {
	SyncProgress(ctx context.Context, xp, level, streak int) error
}

// Config for the sync service
type Config struct {
	// Every is the push cadence
	Every time.Duration
	// PushTimeout bounds one hub round trip
	PushTimeout time.Duration
}

// Svc pushes progress on a fixed cadence; delivery is advisory and a failed
// push is simply dropped until the next tick
type Svc struct {
	progress pdom.ProgressPort
	pusher   PusherPort
	log      logger.Logger
	cfg      Config
}

// New constructs the sync service
func New(progress pdom.ProgressPort, pusher PusherPort, log logger.Logger, cfg Config) *Svc {
	if progress == nil || pusher == nil {
		panic("syncer service: nil port")
	}
	if cfg.Every <= 0 {
		cfg.Every = 30 * time.Second
	}
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = 5 * time.Second
	}
	return &Svc{progress: progress, pusher: pusher, log: log, cfg: cfg}
}

// Run drives the push loop until ctx ends
func (s *Svc) Run(ctx context.Context) error {
	t := time.NewTicker(s.cfg.Every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.PushOnce(ctx)
		}
	}
}

// PushOnce reads the current snapshot and fires one push
func (s *Svc) PushOnce(ctx context.Context) {
	st, err := s.progress.Snapshot(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("progress snapshot for sync failed")
		return
	}

	pctx, cancel := context.WithTimeout(ctx, s.cfg.PushTimeout)
	defer cancel()
	if err := s.pusher.SyncProgress(pctx, st.XP, st.Level, st.StreakDays); err != nil {
		s.log.Warn().Err(err).Msg("progress sync push failed")
	}
}
