// Package module wires the progress sync pusher using modkit
package module

import (
	"context"

	modkit "signtrack/internal/modkit"
	str "signtrack/internal/platform/strings"
	pdom "signtrack/internal/services/progress/domain"
	ssvc "signtrack/internal/services/syncer/service"
)

// Ports are dependencies injected into the syncer module
type Ports struct {
	Progress pdom.ProgressPort // required
	Pusher   ssvc.PusherPort   // required
}

// Module implements the syncer module; it mounts no routes
type Module struct {
	deps modkit.Deps
	name string

	svc *ssvc.Svc
}

// New constructs the syncer module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("syncer"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok {
		panic("syncer module: expected WithPorts(syncer/module.Ports)")
	}
	if ports.Progress == nil || ports.Pusher == nil {
		panic("syncer module: Ports missing Progress or Pusher")
	}

	cfg := FromConfig(deps.Cfg)
	svc := ssvc.New(ports.Progress, ports.Pusher, deps.Log, ssvc.Config{
		Every:       cfg.Every,
		PushTimeout: cfg.PushTimeout,
	})

	return &Module{deps: deps, name: b.Name, svc: svc}
}

// Run drives the push loop until ctx ends
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports returns nothing; the syncer exposes no cross wiring surface
func (m *Module) Ports() any { return nil }
