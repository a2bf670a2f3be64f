// Package module wires the analytics engine using modkit
package module

import (
	"context"
	"net/http"
	"time"

	modkit "signtrack/internal/modkit"
	"signtrack/internal/modkit/httpkit"
	str "signtrack/internal/platform/strings"
	dom "signtrack/internal/services/analytics/domain"
	ahttp "signtrack/internal/services/analytics/http"
	asvc "signtrack/internal/services/analytics/service"
)

// flushEvery is the practice-time fold cadence
const flushEvery = 60 * time.Second

// Module implements the analytics module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)

	svc *asvc.Svc
}

// New constructs the analytics module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("analytics"),
		modkit.WithPrefix("/analytics"),
	}, opts...)...)

	if deps.KV == nil {
		panic("analytics module: nil KV store")
	}

	svc := asvc.New(deps.KV, deps.Now(), deps.Log)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ahttp.Register(r, svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Run drives the practice-time flush loop until ctx ends
// a single ticker means flushes never overlap themselves
func (m *Module) Run(ctx context.Context) error {
	t := time.NewTicker(flushEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			// fold the tail of the session before exit
			flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = m.svc.FlushPracticeTime(flushCtx)
			cancel()
			return ctx.Err()
		case <-t.C:
			if err := m.svc.FlushPracticeTime(ctx); err != nil {
				m.deps.Log.Warn().Err(err).Msg("practice time flush failed")
			}
		}
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		m.register(rr)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports returns the analytics port for cross wiring
func (m *Module) Ports() any { return dom.AnalyticsPort(m.svc) }
