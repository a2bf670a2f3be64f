// Package repo provides Postgres bindings for domain.Repo
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"signtrack/internal/modkit/repokit"
	"signtrack/internal/platform/clock"
	perr "signtrack/internal/platform/errors"
	"signtrack/internal/platform/store"
	str "signtrack/internal/platform/strings"
	"signtrack/internal/services/hub/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion: queries implements domain.Repo
var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// EnsureSchema creates the hub tables when absent; idempotent
func (r *queries) EnsureSchema(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id          BIGSERIAL PRIMARY KEY,
			username    TEXT NOT NULL UNIQUE,
			xp          INT  NOT NULL DEFAULT 0,
			level       INT  NOT NULL DEFAULT 1,
			streak      INT  NOT NULL DEFAULT 0,
			last_active DATE
		);
		CREATE TABLE IF NOT EXISTS detections (
			id             UUID PRIMARY KEY,
			user_id        BIGINT NOT NULL REFERENCES users(id),
			sign           TEXT NOT NULL,
			confidence     DOUBLE PRECISION NOT NULL,
			detection_type TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_detections_user_created
			ON detections (user_id, created_at DESC);
	`)
	return err
}

func (r *queries) GetOrCreateUser(ctx context.Context, username string) (domain.User, error) {
	// the no-op DO UPDATE makes RETURNING fire on the conflict path too
	row := r.q.QueryRow(ctx, `
		INSERT INTO users (username)
		VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING id, username, xp, level, streak, last_active
	`, username)
	return scanUser(row)
}

func (r *queries) SaveUserProgress(
	ctx context.Context,
	userID int64,
	xp, level, streak int,
	lastActive clock.Date,
) error {
	return store.ExecOne(ctx, r.q, `
		UPDATE users
		SET xp = $2, level = $3, streak = $4, last_active = $5
		WHERE id = $1
	`, userID, xp, level, streak, lastActive.Time())
}

func (r *queries) InsertDetection(ctx context.Context, d domain.Detection) error {
	return store.ExecOne(ctx, r.q, `
		INSERT INTO detections (id, user_id, sign, confidence, detection_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.ID, d.UserID, d.Sign, d.Confidence, d.DetectionType, d.CreatedAt)
}

func (r *queries) CountDetectionsSince(
	ctx context.Context,
	userID int64,
	since time.Time,
	detectionType string,
) (int, error) {
	// blank detectionType binds NULL, which disables the filter
	return store.Scalar[int](ctx, r.q, `
		SELECT count(*) FROM detections
		WHERE user_id = $1 AND created_at >= $2
		  AND ($3::text IS NULL OR detection_type = $3)
	`, userID, since, str.SQLNull(detectionType))
}

func (r *queries) RecentDetections(
	ctx context.Context,
	userID int64,
	detectionType string,
	limit int,
) ([]domain.Detection, error) {
	return store.Many(ctx, r.q, scanDetection, `
		SELECT id, user_id, sign, confidence, detection_type, created_at
		FROM detections
		WHERE user_id = $1
		  AND ($2::text IS NULL OR detection_type = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, str.SQLNull(detectionType), limit)
}

func (r *queries) DeleteDetection(ctx context.Context, userID int64, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM detections
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("detection %s not found", id)
	}
	return nil
}

func (r *queries) ClearHistory(ctx context.Context, userID int64, detectionType string) (int, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM detections
		WHERE user_id = $1
		  AND ($2::text IS NULL OR detection_type = $2)
	`, userID, str.SQLNull(detectionType))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *queries) TopByXP(ctx context.Context, limit int) ([]domain.Rank, error) {
	return store.Many(ctx, r.q, scanRank, `
		SELECT username, xp, level, streak
		FROM users
		ORDER BY xp DESC, username ASC
		LIMIT $1
	`, limit)
}

func (r *queries) TopByStreak(ctx context.Context, limit int) ([]domain.Rank, error) {
	return store.Many(ctx, r.q, scanRank, `
		SELECT username, xp, level, streak
		FROM users
		ORDER BY streak DESC, xp DESC, username ASC
		LIMIT $1
	`, limit)
}

func scanUser(row repokit.Row) (domain.User, error) {
	var u domain.User
	var lastActive *time.Time
	if err := row.Scan(&u.ID, &u.Username, &u.XP, &u.Level, &u.Streak, &lastActive); err != nil {
		return domain.User{}, err
	}
	if lastActive != nil {
		u.LastActive = clock.DateOf(*lastActive)
	}
	return u, nil
}

func scanDetection(row repokit.Row) (domain.Detection, error) {
	var d domain.Detection
	err := row.Scan(&d.ID, &d.UserID, &d.Sign, &d.Confidence, &d.DetectionType, &d.CreatedAt)
	return d, err
}

func scanRank(row repokit.Row) (domain.Rank, error) {
	var k domain.Rank
	err := row.Scan(&k.Username, &k.XP, &k.Level, &k.Streak)
	return k, err
}
