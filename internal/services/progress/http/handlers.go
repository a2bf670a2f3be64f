// Package http provides the local status transport for progress
package http

import (
	stdhttp "net/http"

	"signtrack/internal/modkit/httpkit"
	dom "signtrack/internal/services/progress/domain"
)

// View is the wire shape the UI reads
type View struct {
	XP         int     `json:"xp"`
	Level      int     `json:"level"`
	StreakDays int     `json:"streak_days"`
	Fraction   float64 `json:"progress_fraction"`
	LastActive string  `json:"last_active"`
}

// Register mounts progress endpoints on the given router
func Register(r httpkit.Router, p dom.ProgressPort) {
	h := &handlers{port: p}

	httpkit.Get(r, "/", h.snapshot)
}

type handlers struct{ port dom.ProgressPort }

func (h *handlers) snapshot(r *stdhttp.Request) (any, error) {
	st, err := h.port.Snapshot(r.Context())
	if err != nil {
		return nil, err
	}
	return View{
		XP:         st.XP,
		Level:      st.Level,
		StreakDays: st.StreakDays,
		Fraction:   dom.Fraction(st.XP, st.Level),
		LastActive: st.LastActive.String(),
	}, nil
}
