// Package pg provides the Postgres client used by the hub's relational store
package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures pool sizing and slow-query marking
type Config struct {
	URL      string
	MaxConns int32
	// SlowMs marks queries at or above this many milliseconds as slow
	SlowMs int
}

// PG bundles the pgx pool with the optional query tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// seam for tests
var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies the optional pool mutator, and dials the pool.
// tracer may be nil to disable query tracing
func Open(ctx context.Context, cfg Config, tracer QueryTracer, poolCfgMut func(*pgxpool.Config)) (*PG, error) {
	if cfg.URL == "" {
		return nil, errors.New("pg: empty URL")
	}
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if poolCfgMut != nil {
		poolCfgMut(pcfg)
	}

	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close releases the pool; safe on nil
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
