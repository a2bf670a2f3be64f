package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestOpen_KVOnly_SetsKVAndLeavesOthersNil(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := Config{
		KV: KVConfig{Enabled: true, Path: ":memory:"},
	}

	s, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s.KV == nil {
		t.Fatalf("KV not initialized")
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("unexpected seams set PG=%T CH=%T", s.PG, s.CH)
	}

	if err := s.KV.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("KV put: %v", err)
	}

	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestOpen_PGEnabled_BadURL_BubblesError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := Config{
		PG: PGConfig{
			Enabled:  true,
			URL:      "://bad", // parse error inside pg.Open
			MaxConns: 1,
		},
	}

	s, err := Open(ctx, cfg)
	if err == nil {
		t.Fatalf("expected Open error for bad PG URL, got store=%#v", s)
	}
	if s != nil {
		t.Fatalf("expected nil store on error, got %#v", s)
	}
}

func TestOpen_CHEnabled_EmptyURL_BubblesError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := Config{
		CH: CHConfig{Enabled: true, URL: ""},
	}

	s, err := Open(ctx, cfg)
	if err == nil {
		t.Fatalf("expected Open error for empty CH URL, got store=%#v", s)
	}
}

func TestOpen_OptionsApplied_NoPanicOnWithLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var zl zerolog.Logger
	s, err := Open(ctx, Config{}, WithLogger(zl))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s == nil {
		t.Fatalf("Open returned nil store")
	}
	if e := s.Close(ctx); e != nil {
		t.Fatalf("Close on empty store returned error: %v", e)
	}
}

func TestGuard_NilStoreAndEmptyStore(t *testing.T) {
	t.Parallel()

	var s *Store
	if err := s.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should fail guard")
	}

	s = &Store{}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("empty store guard: %v", err)
	}
}
