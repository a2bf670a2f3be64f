package repokit

import (
	"context"
	"fmt"
	"time"
)

// defaultPingTimeout bounds a readiness ping when the caller's context
// has no deadline of its own
const defaultPingTimeout = 5 * time.Second

type guarder interface {
	Guard(context.Context) error
}

// MustPing panics when a single backend doesn't answer a Ping in time;
// name tells the startup log which seam was unhealthy
func MustPing(ctx context.Context, name string, p interface{ Ping(context.Context) error }) {
	if p == nil {
		panic(fmt.Sprintf("%s: nil dependency", name))
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultPingTimeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		panic(fmt.Sprintf("%s ping failed: %v", name, err))
	}
}

// MustGuard walks every configured store seam via Guard and panics on
// the first unhealthy one; called once at service startup so a dead
// Postgres or ClickHouse fails the boot instead of the first request
func MustGuard(ctx context.Context, st guarder) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
