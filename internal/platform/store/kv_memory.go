package store

import (
	"context"
	"sync"
)

// memKV is an in process KV for tests and wiring without a file
type memKV struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemKV returns an empty in memory KV
func NewMemKV() KV {
	return &memKV{m: make(map[string]string)}
}

func (k *memKV) Get(_ context.Context, key string) (string, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.m[key]
	return v, ok, nil
}

func (k *memKV) Put(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.m[key] = value
	return nil
}

func (k *memKV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.m, key)
	return nil
}

func (k *memKV) Close() error { return nil }
