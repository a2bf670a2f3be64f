package module

import (
	"time"

	"signtrack/internal/platform/config"
)

// Options holds configuration settings for the syncer module
type Options struct {
	Every       time.Duration
	PushTimeout time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("SYNCER_")
	return Options{
		Every:       sf.MayDuration("EVERY", 30*time.Second),
		PushTimeout: sf.MayDuration("PUSH_TIMEOUT", 5*time.Second),
	}
}
