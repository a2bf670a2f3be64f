package store

import (
	"context"
	"errors"
	"testing"

	perr "signtrack/internal/platform/errors"
)

// fakeQuerier serves canned rows for helper tests
type fakeQuerier struct {
	rows     [][]any
	cols     []string
	affected int64
	err      error
}

func (f *fakeQuerier) Exec(_ context.Context, _ string, _ ...any) (CommandTag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return fakeTag{n: f.affected}, nil
}

func (f *fakeQuerier) Query(_ context.Context, _ string, _ ...any) (Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRows{rows: f.rows, cols: f.cols, i: -1}, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, _ ...any) Row {
	return &fakeRow{q: f}
}

type fakeTag struct{ n int64 }

func (t fakeTag) String() string      { return "TAG" }
func (t fakeTag) RowsAffected() int64 { return t.n }

type fakeRow struct{ q *fakeQuerier }

func (r *fakeRow) Scan(dest ...any) error {
	if r.q.err != nil {
		return r.q.err
	}
	if len(r.q.rows) == 0 {
		return errors.New("no rows")
	}
	return assignRow(r.q.rows[0], dest)
}

type fakeRows struct {
	rows [][]any
	cols []string
	i    int
}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error { return assignRow(r.rows[r.i], dest) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 {}
func (r *fakeRows) Columns() []string      { return r.cols }

func assignRow(src []any, dest []any) error {
	if len(src) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i := range src {
		switch d := dest[i].(type) {
		case *string:
			*d = src[i].(string)
		case *int:
			*d = src[i].(int)
		case *float64:
			*d = src[i].(float64)
		default:
			return errors.New("unsupported dest type")
		}
	}
	return nil
}

func TestScalar(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{rows: [][]any{{42}}}
	got, err := Scalar[int](context.Background(), q, "SELECT xp FROM users WHERE username = $1", "kai")
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if got != 42 {
		t.Fatalf("Scalar = %d, want 42", got)
	}
}

func TestOne_NotFound(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{}
	_, err := One(context.Background(), q, func(r Row) (string, error) {
		var s string
		return s, r.Scan(&s)
	}, "SELECT sign FROM detections WHERE id = $1", 1)
	if !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestOne_TooManyRows(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{rows: [][]any{{"hello"}, {"thanks"}}}
	_, err := One(context.Background(), q, func(r Row) (string, error) {
		var s string
		return s, r.Scan(&s)
	}, "SELECT sign FROM detections")
	if err == nil {
		t.Fatalf("expected error for multiple rows")
	}
}

func TestMany(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{rows: [][]any{{"hello", 0.91}, {"thanks", 0.87}}}
	type det struct {
		Sign string
		Conf float64
	}
	got, err := Many(context.Background(), q, func(r Row) (det, error) {
		var d det
		return d, r.Scan(&d.Sign, &d.Conf)
	}, "SELECT sign, confidence FROM detections ORDER BY id DESC")
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if len(got) != 2 || got[0].Sign != "hello" || got[1].Conf != 0.87 {
		t.Fatalf("Many = %#v", got)
	}
}

func TestExecOne(t *testing.T) {
	t.Parallel()

	if err := ExecOne(context.Background(), &fakeQuerier{affected: 1}, "UPDATE users SET xp = $1", 10); err != nil {
		t.Fatalf("ExecOne: %v", err)
	}
	if err := ExecOne(context.Background(), &fakeQuerier{affected: 0}, "UPDATE users SET xp = $1", 10); err == nil {
		t.Fatalf("expected error on zero rows affected")
	}
}
