// Package module wires the detection tracker using modkit
package module

import (
	"context"
	"net/http"

	modkit "signtrack/internal/modkit"
	"signtrack/internal/modkit/httpkit"
	str "signtrack/internal/platform/strings"
	adom "signtrack/internal/services/analytics/domain"
	pdom "signtrack/internal/services/progress/domain"
	dom "signtrack/internal/services/tracker/domain"
	thttp "signtrack/internal/services/tracker/http"
	tsvc "signtrack/internal/services/tracker/service"
)

// Ports are dependencies injected into the tracker module
type Ports struct {
	Detector  dom.DetectorPort   // required
	Sink      dom.SinkPort       // optional, nil disables remote logging
	Progress  pdom.ProgressPort  // required
	Analytics adom.AnalyticsPort // required
}

// Module implements the tracker module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)

	svc *tsvc.Svc
}

// New constructs the tracker module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("tracker"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok {
		panic("tracker module: expected WithPorts(tracker/module.Ports)")
	}
	if ports.Detector == nil || ports.Progress == nil || ports.Analytics == nil {
		panic("tracker module: Ports missing Detector, Progress, or Analytics")
	}

	cfg := FromConfig(deps.Cfg)
	svc := tsvc.New(
		ports.Detector,
		ports.Sink,
		ports.Progress,
		ports.Analytics,
		deps.Now(),
		deps.Log,
		tsvc.Config{
			PollEvery:    cfg.PollEvery,
			QueryTimeout: cfg.QueryTimeout,
		},
	)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		thttp.Register(r, svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Run drives the poll loop until ctx ends
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

// StartPolling arms the poller immediately, used when autostart is configured
func (m *Module) StartPolling() { m.svc.Start() }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	if m.prefix == "" {
		for _, mw := range m.mws {
			r.Use(mw)
		}
		m.register(r)
		return
	}
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		m.register(rr)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports returns the tracker port for cross wiring
func (m *Module) Ports() any { return dom.TrackerPort(m.svc) }
