// Package http provides the local status transport for analytics
package http

import (
	stdhttp "net/http"

	"signtrack/internal/modkit/httpkit"
	dom "signtrack/internal/services/analytics/domain"
)

// View is the wire shape the UI reads
type View struct {
	TotalEvents     int `json:"total_events"`
	CorrectEvents   int `json:"correct_events"`
	AccuracyPercent int `json:"accuracy_percent"`
	PracticeSeconds int `json:"practice_seconds"`
}

// Register mounts analytics endpoints on the given router
func Register(r httpkit.Router, p dom.AnalyticsPort) {
	h := &handlers{port: p}

	httpkit.Get(r, "/", h.snapshot)
	httpkit.Get(r, "/chart", h.chart)
}

type handlers struct{ port dom.AnalyticsPort }

func (h *handlers) snapshot(r *stdhttp.Request) (any, error) {
	st, err := h.port.Snapshot(r.Context())
	if err != nil {
		return nil, err
	}
	acc, err := h.port.AccuracyPercent(r.Context())
	if err != nil {
		return nil, err
	}
	return View{
		TotalEvents:     st.TotalEvents,
		CorrectEvents:   st.CorrectEvents,
		AccuracyPercent: acc,
		PracticeSeconds: st.PracticeSeconds,
	}, nil
}

func (h *handlers) chart(r *stdhttp.Request) (any, error) {
	return h.port.ChartData(r.Context())
}
