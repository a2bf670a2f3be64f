// Package domain defines the core types for the progression engine
package domain

import (
	"signtrack/internal/platform/clock"
)

// State is the durable progression record
type State struct {
	XP         int        `json:"xp"`
	Level      int        `json:"level"`
	StreakDays int        `json:"streak_days"`
	LastActive clock.Date `json:"last_active"`
}

// Defaults returns the first-run state for the given day
func Defaults(today clock.Date) State {
	return State{XP: 0, Level: 1, StreakDays: 0, LastActive: today}
}

// LevelFor derives the level from lifetime XP, 100 XP per level
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/100 + 1
}

// Fraction reports progress through the current level band as [0,1]
func Fraction(xp, level int) float64 {
	f := float64(xp-(level-1)*100) / 100
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
