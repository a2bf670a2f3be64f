// Package modkit provides module wiring and core deps
package modkit

import (
	"signtrack/internal/modkit/repokit"
	"signtrack/internal/platform/clock"
	"signtrack/internal/platform/config"
	"signtrack/internal/platform/logger"
	"signtrack/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner
	CH    store.Clickhouse
	KV    store.KV
	Clock clock.Clock
}

// Now returns the deps clock, defaulting to the system clock when unset
func (d Deps) Now() clock.Clock {
	if d.Clock == nil {
		return clock.System{}
	}
	return d.Clock
}
