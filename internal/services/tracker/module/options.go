package module

import (
	"time"

	"signtrack/internal/platform/config"
)

// Options holds configuration settings for the tracker module
type Options struct {
	PollEvery    time.Duration
	QueryTimeout time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	tf := cfg.Prefix("TRACKER_")
	return Options{
		PollEvery:    tf.MayDuration("POLL_EVERY", 300*time.Millisecond),
		QueryTimeout: tf.MayDuration("QUERY_TIMEOUT", 2*time.Second),
	}
}
