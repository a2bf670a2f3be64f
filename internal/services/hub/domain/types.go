// Package domain holds hub types and ports
package domain

import (
	"time"

	"github.com/google/uuid"

	"signtrack/internal/platform/clock"
)

// DefaultDetectionType marks rows saved through the live recognizer path
const DefaultDetectionType = "live"

// User is a hub account row
// LastActive is the server's own notion of the last day this user synced
// or committed a detection, and drives server-side streak continuity
type User struct {
	ID         int64
	Username   string
	XP         int
	Level      int
	Streak     int
	LastActive clock.Date
}

// Detection is one committed recognizer sample
type Detection struct {
	ID            uuid.UUID
	UserID        int64
	Sign          string
	Confidence    float64
	DetectionType string
	CreatedAt     time.Time
}

// History is the per-user detection digest
type History struct {
	TodayCount int
	Recent     []Detection
}

// Rank is a leaderboard row
type Rank struct {
	Username string
	XP       int
	Level    int
	Streak   int
}

// Leaderboard holds both orderings side by side
type Leaderboard struct {
	ByXP     []Rank
	ByStreak []Rank
}

// Sample is the recognizer relay payload, shaped like the recognizer's wire
type Sample struct {
	Sign     string  `json:"sign"`
	Conf     float64 `json:"conf"`
	Filipino string  `json:"filipino,omitempty"`
}
