package module

import (
	"signtrack/internal/platform/config"
)

// Options holds configuration settings for the hub module
type Options struct {
	// DefaultUser scopes requests that carry no X-User header
	DefaultUser string
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	hf := cfg.Prefix("HUB_")
	return Options{
		DefaultUser: hf.MayString("DEFAULT_USER", "guest"),
	}
}
