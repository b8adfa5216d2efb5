// Package storage persists the extension blob under a namespaced key in one
// of several backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pterm/pterm"
)

var (
	// ErrNotFound means the key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrUnavailable means the backend cannot be used at all. Callers degrade
	// to in-memory operation.
	ErrUnavailable = errors.New("persistence backend unavailable")
	// ErrMalformed means stored data exists but cannot be decoded.
	ErrMalformed = errors.New("malformed stored data")
)

// Backend is a keyed blob store.
type Backend interface {
	Name() string
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Memory keeps blobs in process memory.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Unavailable is a backend that always reports ErrUnavailable.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Name() string { return "unavailable" }

func (u Unavailable) Read(context.Context, string) ([]byte, error) {
	return nil, u.err()
}

func (u Unavailable) Write(context.Context, string, []byte) error {
	return u.err()
}

func (u Unavailable) err() error {
	if u.Reason == "" {
		return ErrUnavailable
	}
	return fmt.Errorf("%s: %w", u.Reason, ErrUnavailable)
}

// Fallback routes every call to the first backend that is not unavailable.
type Fallback struct {
	Backends []Backend
	Logger   *pterm.Logger
}

// NewFallback chains backends in priority order.
func NewFallback(logger *pterm.Logger, backends ...Backend) *Fallback {
	return &Fallback{Backends: backends, Logger: logger}
}

func (f *Fallback) Name() string {
	names := make([]string, 0, len(f.Backends))
	for _, b := range f.Backends {
		names = append(names, b.Name())
	}
	return fmt.Sprintf("fallback%v", names)
}

func (f *Fallback) Read(ctx context.Context, key string) ([]byte, error) {
	for _, b := range f.Backends {
		data, err := b.Read(ctx, key)
		if errors.Is(err, ErrUnavailable) {
			f.skip(b, err)
			continue
		}
		return data, err
	}
	return nil, ErrUnavailable
}

func (f *Fallback) Write(ctx context.Context, key string, data []byte) error {
	for _, b := range f.Backends {
		err := b.Write(ctx, key, data)
		if errors.Is(err, ErrUnavailable) {
			f.skip(b, err)
			continue
		}
		return err
	}
	return ErrUnavailable
}

func (f *Fallback) skip(b Backend, err error) {
	if f.Logger != nil {
		f.Logger.Debug("skipping storage backend", f.Logger.Args("backend", b.Name(), "reason", err.Error()))
	}
}
