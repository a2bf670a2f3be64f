// Package domain defines the core types for the analytics engine
package domain

import (
	"signtrack/internal/platform/clock"
)

// State is the durable analytics record
// DailyCounts is keyed by calendar day and serializes as 2006-01-02
type State struct {
	TotalEvents     int                `json:"total_events"`
	CorrectEvents   int                `json:"correct_events"`
	DailyCounts     map[clock.Date]int `json:"daily_counts"`
	PracticeSeconds int                `json:"practice_seconds"`
}

// Defaults returns the first-run analytics state
func Defaults() State {
	return State{DailyCounts: map[clock.Date]int{}}
}

// Bar is one rendered chart column
type Bar struct {
	Label     string `json:"label"`
	HeightPct int    `json:"height_pct"`
	Count     int    `json:"count"`
}
