package store

import (
	"context"
	"errors"
	"time"

	"signtrack/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryTrace emits query events to a tracer; the zero value is inert
// pool and transaction paths share it so traced output is uniform
type queryTrace struct {
	tracer pg.QueryTracer
	slowUS int64
}

func (qt queryTrace) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if qt.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	qt.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      qt.slowUS >= 0 && elapsedUS >= qt.slowUS,
	})
}

// pgAdapter wraps pg.PG and implements RowQuerier + TxRunner
type pgAdapter struct {
	p  *pg.PG
	qt queryTrace
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		p:  p,
		qt: queryTrace{tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000},
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return execTraced(ctx, a.p.Pool, a.qt, sql, args)
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return queryTraced(ctx, a.p.Pool, a.qt, sql, args)
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return queryRowTraced(ctx, a.p.Pool, a.qt, sql, args)
}

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(txQuerier{tx: tx, qt: a.qt}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// txQuerier satisfies RowQuerier inside a transaction with the same tracing
type txQuerier struct {
	tx pgx.Tx
	qt queryTrace
}

func (t txQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return execTraced(ctx, t.tx, t.qt, sql, args)
}

func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return queryTraced(ctx, t.tx, t.qt, sql, args)
}

func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return queryRowTraced(ctx, t.tx, t.qt, sql, args)
}

// pgxQuerier is the pgx surface shared by *pgxpool.Pool and pgx.Tx
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func execTraced(ctx context.Context, q pgxQuerier, qt queryTrace, sql string, args []any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.Exec(ctx, sql, args...)
	qt.emit(ctx, sql, args, start, err)
	return pgTag{ct}, err
}

func queryTraced(ctx context.Context, q pgxQuerier, qt queryTrace, sql string, args []any) (Rows, error) {
	start := time.Now()
	rs, err := q.Query(ctx, sql, args...)
	qt.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{r: rs}, nil
}

func queryRowTraced(ctx context.Context, q pgxQuerier, qt queryTrace, sql string, args []any) Row {
	start := time.Now()
	r := q.QueryRow(ctx, sql, args...)
	// emit fires after Scan so the event carries the scan error too
	return pgRow{
		r: r,
		after: func(scanErr error) {
			qt.emit(ctx, sql, args, start, scanErr)
		},
	}
}

// adapters from pgx to the store's tiny Row/Rows/CommandTag

type pgRow struct {
	r     pgx.Row
	after func(error)
}

func (x pgRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type pgRows struct{ r pgx.Rows }

func (x pgRows) Next() bool            { return x.r.Next() }
func (x pgRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x pgRows) Err() error            { return x.r.Err() }
func (x pgRows) Close()                { x.r.Close() }
func (x pgRows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = string(f[i].Name)
	}
	return out
}

type pgTag struct{ t pgconn.CommandTag }

func (t pgTag) String() string      { return t.t.String() }
func (t pgTag) RowsAffected() int64 { return t.t.RowsAffected() }
