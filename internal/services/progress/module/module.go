// Package module wires the progression engine using modkit
package module

import (
	"net/http"

	modkit "signtrack/internal/modkit"
	"signtrack/internal/modkit/httpkit"
	str "signtrack/internal/platform/strings"
	dom "signtrack/internal/services/progress/domain"
	phttp "signtrack/internal/services/progress/http"
	psvc "signtrack/internal/services/progress/service"
)

// Module implements the progress module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)

	svc *psvc.Svc
}

// New constructs the progress module
// onLevelUp may be nil
func New(deps modkit.Deps, onLevelUp dom.LevelUpFunc, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("progress"),
		modkit.WithPrefix("/progress"),
	}, opts...)...)

	if deps.KV == nil {
		panic("progress module: nil KV store")
	}

	svc := psvc.New(deps.KV, deps.Now(), deps.Log, onLevelUp)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		phttp.Register(r, svc)
		if external != nil {
			external(r)
		}
	}
	return m
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

// Ports returns the progression port for cross wiring
func (m *Module) Ports() any { return dom.ProgressPort(m.svc) }
