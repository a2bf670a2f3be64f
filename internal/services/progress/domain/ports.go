package domain

import "context"

// ProgressPort is the mutation and read surface other modules depend on
type ProgressPort interface {
	// Snapshot returns the current state, loading defaults when absent
	Snapshot(ctx context.Context) (State, error)

	// AddXP awards xp and re-derives the level, returning the new state
	AddXP(ctx context.Context, amount int) (State, error)

	// RecomputeStreak applies the day-boundary rules and returns the new state
	RecomputeStreak(ctx context.Context) (State, error)
}

// LevelUpFunc receives level transitions after an AddXP that crossed a boundary
type LevelUpFunc func(ctx context.Context, from, to int)
