package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"signtrack/internal/platform/clock"
)

// Repo is the persistence surface the hub service needs
type Repo interface {
	// EnsureSchema creates the hub tables when absent; idempotent
	EnsureSchema(ctx context.Context) error

	// GetOrCreateUser resolves a username to its row, creating it on first sight
	GetOrCreateUser(ctx context.Context, username string) (User, error)

	// SaveUserProgress overwrites the user's progression columns
	SaveUserProgress(ctx context.Context, userID int64, xp, level, streak int, lastActive clock.Date) error

	// InsertDetection appends one detection row
	InsertDetection(ctx context.Context, d Detection) error

	// CountDetectionsSince counts a user's detections at or after since;
	// a blank detectionType counts every type
	CountDetectionsSince(ctx context.Context, userID int64, since time.Time, detectionType string) (int, error)

	// RecentDetections returns the user's newest detections, newest first;
	// a blank detectionType spans every type
	RecentDetections(ctx context.Context, userID int64, detectionType string, limit int) ([]Detection, error)

	// DeleteDetection removes one of the user's detections; not-found when
	// the id does not exist or belongs to another user
	DeleteDetection(ctx context.Context, userID int64, id uuid.UUID) error

	// ClearHistory removes the user's detections of the given type
	// (every type when blank) and reports how many rows went away
	ClearHistory(ctx context.Context, userID int64, detectionType string) (int, error)

	// TopByXP returns up to limit users ordered by xp descending
	TopByXP(ctx context.Context, limit int) ([]Rank, error)

	// TopByStreak returns up to limit users ordered by streak descending
	TopByStreak(ctx context.Context, limit int) ([]Rank, error)
}

// HubPort is the hub surface exposed to transports
type HubPort interface {
	SaveDetection(ctx context.Context, username, sign, detectionType string, confidence float64) (Detection, error)
	SyncProgress(ctx context.Context, username string, xp, level, streak int) (User, error)
	History(ctx context.Context, username, detectionType string) (History, error)
	DeleteDetection(ctx context.Context, username string, id uuid.UUID) error
	ClearHistory(ctx context.Context, username, detectionType string) (int, error)
	Leaderboard(ctx context.Context) (Leaderboard, error)
}

// RelayPort serves the recognizer's latest sample to browser clients
type RelayPort interface {
	Latest(ctx context.Context) (Sample, error)
}
