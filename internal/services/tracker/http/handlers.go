// Package http provides the local control transport for the tracker
package http

import (
	stdhttp "net/http"

	"signtrack/internal/modkit/httpkit"
	dom "signtrack/internal/services/tracker/domain"
)

// Register mounts tracker endpoints on the given router
func Register(r httpkit.Router, p dom.TrackerPort) {
	h := &handlers{port: p}

	httpkit.Get(r, "/transcript", h.transcript)
	httpkit.Post(r, "/transcript/clear", h.clearTranscript)
	httpkit.Get(r, "/display", h.display)
	httpkit.Post(r, "/detect/start", h.start)
	httpkit.Post(r, "/detect/stop", h.stop)
}

type handlers struct{ port dom.TrackerPort }

func (h *handlers) transcript(_ *stdhttp.Request) (any, error) {
	entries := h.port.Transcript()
	return map[string]any{"entries": entries, "count": len(entries)}, nil
}

func (h *handlers) clearTranscript(_ *stdhttp.Request) (any, error) {
	h.port.ClearTranscript()
	return map[string]any{"cleared": true}, nil
}

func (h *handlers) display(_ *stdhttp.Request) (any, error) {
	return h.port.Display(), nil
}

func (h *handlers) start(_ *stdhttp.Request) (any, error) {
	h.port.Start()
	return map[string]any{"polling": true}, nil
}

func (h *handlers) stop(_ *stdhttp.Request) (any, error) {
	h.port.Stop()
	return map[string]any{"polling": false}, nil
}
