// Package http provides the hub transport
package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"signtrack/internal/modkit/httpkit"
	perr "signtrack/internal/platform/errors"
	dom "signtrack/internal/services/hub/domain"
)

// Register mounts hub endpoints on the given router
// relay may be nil when no recognizer is configured
func Register(r httpkit.Router, port dom.HubPort, relay dom.RelayPort, defaultUser string) {
	h := &handlers{port: port, relay: relay, defaultUser: defaultUser}

	httpkit.PostJSON(r, "/save_detection", h.saveDetection)
	httpkit.PostJSON(r, "/sync_progress", h.syncProgress)
	httpkit.Get(r, "/history_data", h.history)
	httpkit.Delete(r, "/delete_detection/{id}", h.deleteDetection)
	httpkit.Delete(r, "/clear_all_history/{detection_type}", h.clearHistory)
	httpkit.Get(r, "/leaderboard", h.leaderboard)
	httpkit.Get(r, "/latest", h.latest)
}

type handlers struct {
	port        dom.HubPort
	relay       dom.RelayPort
	defaultUser string
}

type saveDetectionBody struct {
	Sign          string  `json:"sign" validate:"required"`
	Confidence    float64 `json:"confidence" validate:"gte=0,lte=1"`
	DetectionType string  `json:"detection_type" validate:"omitempty,max=64"`
}

type syncProgressBody struct {
	XP     int `json:"xp" validate:"gte=0"`
	Level  int `json:"level" validate:"gte=1"`
	Streak int `json:"streak" validate:"gte=0"`
}

type detectionView struct {
	Sign          string    `json:"sign"`
	Confidence    float64   `json:"confidence"`
	DetectionType string    `json:"detection_type"`
	CreatedAt     time.Time `json:"created_at"`
}

type rankView struct {
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Streak   int    `json:"streak"`
}

// user resolves the acting username from X-User, falling back to the
// configured default when the header is absent
func (h *handlers) user(r *stdhttp.Request) string {
	if u := strings.TrimSpace(r.Header.Get("X-User")); u != "" {
		return u
	}
	return h.defaultUser
}

func (h *handlers) saveDetection(r *stdhttp.Request, in saveDetectionBody) (any, error) {
	if _, err := h.port.SaveDetection(r.Context(), h.user(r), in.Sign, in.DetectionType, in.Confidence); err != nil {
		return nil, err
	}
	return map[string]any{"status": "saved"}, nil
}

func (h *handlers) syncProgress(r *stdhttp.Request, in syncProgressBody) (any, error) {
	u, err := h.port.SyncProgress(r.Context(), h.user(r), in.XP, in.Level, in.Streak)
	if err != nil {
		return nil, err
	}
	return map[string]any{"status": "synced", "streak": u.Streak}, nil
}

func (h *handlers) history(r *stdhttp.Request) (any, error) {
	hist, err := h.port.History(r.Context(), h.user(r), r.URL.Query().Get("detection_type"))
	if err != nil {
		return nil, err
	}
	views := make([]detectionView, 0, len(hist.Recent))
	for _, d := range hist.Recent {
		views = append(views, detectionView{
			Sign:          d.Sign,
			Confidence:    d.Confidence,
			DetectionType: d.DetectionType,
			CreatedAt:     d.CreatedAt,
		})
	}
	return map[string]any{"today_count": hist.TodayCount, "detections": views}, nil
}

func (h *handlers) deleteDetection(r *stdhttp.Request) (any, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, perr.InvalidArgf("malformed detection id %q", raw)
	}
	if err := h.port.DeleteDetection(r.Context(), h.user(r), id); err != nil {
		return nil, err
	}
	return map[string]any{"status": "deleted"}, nil
}

// clearHistory wipes one detection type; the literal "all" spans them
func (h *handlers) clearHistory(r *stdhttp.Request) (any, error) {
	dt := chi.URLParam(r, "detection_type")
	if dt == "all" {
		dt = ""
	}
	n, err := h.port.ClearHistory(r.Context(), h.user(r), dt)
	if err != nil {
		return nil, err
	}
	return map[string]any{"status": "cleared", "deleted": n}, nil
}

func (h *handlers) leaderboard(r *stdhttp.Request) (any, error) {
	lb, err := h.port.Leaderboard(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"by_xp":     ranks(lb.ByXP),
		"by_streak": ranks(lb.ByStreak),
	}, nil
}

func (h *handlers) latest(r *stdhttp.Request) (any, error) {
	if h.relay == nil {
		return nil, perr.Unavailablef("no recognizer configured")
	}
	s, err := h.relay.Latest(r.Context())
	if err != nil {
		return nil, err
	}
	return s, nil
}

func ranks(rs []dom.Rank) []rankView {
	out := make([]rankView, 0, len(rs))
	for _, k := range rs {
		out = append(out, rankView{Username: k.Username, XP: k.XP, Level: k.Level, Streak: k.Streak})
	}
	return out
}
