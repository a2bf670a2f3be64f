// Package service implements the hub's save, sync, and read operations
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"signtrack/internal/modkit/repokit"
	"signtrack/internal/platform/clock"
	perr "signtrack/internal/platform/errors"
	"signtrack/internal/platform/logger"
	"signtrack/internal/platform/store"
	"signtrack/internal/services/hub/domain"
)

const (
	// leaderboardSize caps both leaderboard orderings
	leaderboardSize = 10

	// recentSize caps the history digest's detection list
	recentSize = 10

	// archiveTimeout bounds the fire-and-forget columnar write
	archiveTimeout = 5 * time.Second
)

// Svc implements domain.HubPort over Postgres with an optional
// ClickHouse archive for detection rows
type Svc struct {
	db   repokit.TxRunner
	repo repokit.Binder[domain.Repo]
	ch   store.Clickhouse
	clk  clock.Clock
	log  logger.Logger
}

var _ domain.HubPort = (*Svc)(nil)

// New constructs the hub service; ch may be nil to disable archiving
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.Repo],
	ch store.Clickhouse,
	clk clock.Clock,
	log logger.Logger,
) *Svc {
	if db == nil {
		panic("hub service: nil db")
	}
	if binder == nil {
		panic("hub service: nil repo binder")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Svc{db: db, repo: binder, ch: ch, clk: clk, log: log}
}

// EnsureSchema creates the hub tables when absent
func (s *Svc) EnsureSchema(ctx context.Context) error {
	return s.repo.Bind(s.db).EnsureSchema(ctx)
}

// SaveDetection records one committed recognizer sample for the user
// the relational insert is authoritative; the columnar archive is
// best-effort and never fails the request
func (s *Svc) SaveDetection(
	ctx context.Context,
	username, sign, detectionType string,
	confidence float64,
) (domain.Detection, error) {
	sign = strings.TrimSpace(sign)
	if sign == "" {
		return domain.Detection{}, perr.InvalidArgf("sign must not be empty")
	}
	if confidence < 0 || confidence > 1 {
		return domain.Detection{}, perr.InvalidArgf("confidence %v outside [0,1]", confidence)
	}
	detectionType = strings.TrimSpace(detectionType)
	if detectionType == "" {
		detectionType = domain.DefaultDetectionType
	}

	d := domain.Detection{
		ID:            uuid.New(),
		Sign:          sign,
		Confidence:    confidence,
		DetectionType: detectionType,
		CreatedAt:     s.clk.Now(),
	}

	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.repo.Bind(q)
		u, err := r.GetOrCreateUser(ctx, username)
		if err != nil {
			return err
		}
		d.UserID = u.ID
		return r.InsertDetection(ctx, d)
	})
	if err != nil {
		return domain.Detection{}, perr.WrapIf(err, perr.ErrorCodeDB, "save detection failed")
	}

	if s.ch != nil {
		go s.archive(d, username)
	}
	return d, nil
}

// SyncProgress applies a last-write-wins overwrite of xp and level and
// re-derives streak continuity from the server's own last_active:
// same day keeps the stored streak, the next day accepts the client's,
// a gap or a first sync resets to 1
func (s *Svc) SyncProgress(
	ctx context.Context,
	username string,
	xp, level, streak int,
) (domain.User, error) {
	if xp < 0 {
		xp = 0
	}
	if level < 1 {
		level = 1
	}
	if streak < 0 {
		streak = 0
	}

	var out domain.User
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.repo.Bind(q)
		u, err := r.GetOrCreateUser(ctx, username)
		if err != nil {
			return err
		}

		today := clock.Today(s.clk)
		next := 1
		switch {
		case u.LastActive.IsZero():
			// first sync ever
		case u.LastActive == today:
			next = u.Streak
			if next < 1 {
				next = 1
			}
		case clock.DaysBetween(u.LastActive, today) == 1:
			next = streak
			if next < 1 {
				next = 1
			}
		}

		if err := r.SaveUserProgress(ctx, u.ID, xp, level, next, today); err != nil {
			return err
		}
		out = domain.User{
			ID: u.ID, Username: u.Username,
			XP: xp, Level: level, Streak: next, LastActive: today,
		}
		return nil
	})
	if err != nil {
		return domain.User{}, perr.WrapIf(err, perr.ErrorCodeDB, "sync progress failed")
	}
	return out, nil
}

// History returns today's detection count and the newest rows for the
// user; detectionType narrows both when non-blank
func (s *Svc) History(ctx context.Context, username, detectionType string) (domain.History, error) {
	r := s.repo.Bind(s.db)
	detectionType = strings.TrimSpace(detectionType)

	u, err := r.GetOrCreateUser(ctx, username)
	if err != nil {
		return domain.History{}, perr.WrapIf(err, perr.ErrorCodeDB, "history user lookup failed")
	}

	dayStart := clock.Today(s.clk).Time()
	count, err := r.CountDetectionsSince(ctx, u.ID, dayStart, detectionType)
	if err != nil {
		return domain.History{}, perr.WrapIf(err, perr.ErrorCodeDB, "history count failed")
	}
	recent, err := r.RecentDetections(ctx, u.ID, detectionType, recentSize)
	if err != nil {
		return domain.History{}, perr.WrapIf(err, perr.ErrorCodeDB, "history rows failed")
	}
	return domain.History{TodayCount: count, Recent: recent}, nil
}

// DeleteDetection removes one of the user's own rows; ids owned by
// other users surface as not-found so nothing leaks across users
func (s *Svc) DeleteDetection(ctx context.Context, username string, id uuid.UUID) error {
	r := s.repo.Bind(s.db)

	u, err := r.GetOrCreateUser(ctx, username)
	if err != nil {
		return perr.WrapIf(err, perr.ErrorCodeDB, "delete user lookup failed")
	}
	if err := r.DeleteDetection(ctx, u.ID, id); err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return err
		}
		return perr.Wrap(err, perr.ErrorCodeDB, "delete detection failed")
	}
	return nil
}

// ClearHistory removes the user's detections of the given type, or all
// of them when detectionType is blank, and reports the removed count
func (s *Svc) ClearHistory(ctx context.Context, username, detectionType string) (int, error) {
	r := s.repo.Bind(s.db)
	detectionType = strings.TrimSpace(detectionType)

	u, err := r.GetOrCreateUser(ctx, username)
	if err != nil {
		return 0, perr.WrapIf(err, perr.ErrorCodeDB, "clear user lookup failed")
	}
	n, err := r.ClearHistory(ctx, u.ID, detectionType)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "clear history failed")
	}
	return n, nil
}

// Leaderboard returns the top users by xp and by streak
func (s *Svc) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	r := s.repo.Bind(s.db)

	byXP, err := r.TopByXP(ctx, leaderboardSize)
	if err != nil {
		return domain.Leaderboard{}, perr.WrapIf(err, perr.ErrorCodeDB, "leaderboard by xp failed")
	}
	byStreak, err := r.TopByStreak(ctx, leaderboardSize)
	if err != nil {
		return domain.Leaderboard{}, perr.WrapIf(err, perr.ErrorCodeDB, "leaderboard by streak failed")
	}
	return domain.Leaderboard{ByXP: byXP, ByStreak: byStreak}, nil
}

func (s *Svc) archive(d domain.Detection, username string) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	err := s.ch.Insert(ctx, "detections", [][]any{{
		d.ID.String(), d.UserID, username, d.Sign, d.Confidence, d.DetectionType, d.CreatedAt,
	}})
	if err != nil {
		s.log.Warn().Err(err).Str("sign", d.Sign).Msg("detection archive failed")
	}
}
