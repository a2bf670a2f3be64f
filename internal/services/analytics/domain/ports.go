package domain

import "context"

// AnalyticsPort is the surface other modules depend on
type AnalyticsPort interface {
	// TrackEvent records one detection event and its correctness
	TrackEvent(ctx context.Context, correct bool) error

	// FlushPracticeTime folds elapsed session time into the persisted total
	FlushPracticeTime(ctx context.Context) error

	// Snapshot returns the current state
	Snapshot(ctx context.Context) (State, error)

	// AccuracyPercent reports rounded correct/total, 0 when nothing tracked
	AccuracyPercent(ctx context.Context) (int, error)

	// LastNDaysSeries returns n daily counts ending today, oldest first
	LastNDaysSeries(ctx context.Context, n int) ([]int, error)

	// ChartData returns the 7-day normalized bar chart
	ChartData(ctx context.Context) ([]Bar, error)
}
