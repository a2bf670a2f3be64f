// Package module wires the hub using modkit
package module

import (
	"context"
	"net/http"

	modkit "signtrack/internal/modkit"
	"signtrack/internal/modkit/httpkit"
	str "signtrack/internal/platform/strings"
	dom "signtrack/internal/services/hub/domain"
	hhttp "signtrack/internal/services/hub/http"
	"signtrack/internal/services/hub/repo"
	hsvc "signtrack/internal/services/hub/service"
)

// Ports are dependencies injected into the hub module
type Ports struct {
	Relay dom.RelayPort // optional, nil disables the /latest relay
}

// Module implements the hub module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)

	svc *hsvc.Svc
}

// New constructs the hub module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("hub"),
	}, opts...)...)

	if deps.PG == nil {
		panic("hub module: nil PG store")
	}

	var relay dom.RelayPort
	if ports, ok := b.Ports.(Ports); ok {
		relay = ports.Relay
	}

	cfg := FromConfig(deps.Cfg)
	svc := hsvc.New(deps.PG, repo.NewPG(), deps.CH, deps.Now(), deps.Log)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		hhttp.Register(r, svc, relay, cfg.DefaultUser)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Migrate ensures the hub schema exists; call once at boot
func (m *Module) Migrate(ctx context.Context) error { return m.svc.EnsureSchema(ctx) }

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

// Ports returns the hub port for cross wiring
func (m *Module) Ports() any { return dom.HubPort(m.svc) }
