// Package prefs persists the two scalar player preferences: the high score
// and the mute flag.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Preference keys.
const (
	KeyHighScore = "HighScore"
	KeyMuted     = "IsMuted" // 0 or 1
)

// ErrKeyRequired is returned for an empty key.
var ErrKeyRequired = errors.New("preference key is required")

// Store is a key/value store of integer preferences. Writes are immediate.
type Store interface {
	GetInt(ctx context.Context, key string) (value int, ok bool, err error)
	PutInt(ctx context.Context, key string, value int) error
}

// Int returns the stored value for key, or def when it was never written.
func Int(ctx context.Context, s Store, key string, def int) (int, error) {
	v, ok, err := s.GetInt(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Bool reads a 0/1 preference.
func Bool(ctx context.Context, s Store, key string, def bool) (bool, error) {
	d := 0
	if def {
		d = 1
	}
	v, err := Int(ctx, s, key, d)
	return v != 0, err
}

// PutBool writes a 0/1 preference.
func PutBool(ctx context.Context, s Store, key string, value bool) error {
	v := 0
	if value {
		v = 1
	}
	return s.PutInt(ctx, key, v)
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]int)}
}

// GetInt implements Store.
func (m *Memory) GetInt(_ context.Context, key string) (int, bool, error) {
	if key == "" {
		return 0, false, ErrKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// PutInt implements Store.
func (m *Memory) PutInt(_ context.Context, key string, value int) error {
	if key == "" {
		return ErrKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Scoped prefixes every key so several players can share one store.
type Scoped struct {
	inner  Store
	prefix string
}

// NewScoped returns a view of inner whose keys live under scope.
func NewScoped(inner Store, scope string) *Scoped {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		scope = "anonymous"
	}
	return &Scoped{inner: inner, prefix: scope + "/"}
}

// GetInt implements Store.
func (s *Scoped) GetInt(ctx context.Context, key string) (int, bool, error) {
	if key == "" {
		return 0, false, ErrKeyRequired
	}
	return s.inner.GetInt(ctx, s.prefix+key)
}

// PutInt implements Store.
func (s *Scoped) PutInt(ctx context.Context, key string, value int) error {
	if key == "" {
		return ErrKeyRequired
	}
	if err := s.inner.PutInt(ctx, s.prefix+key, value); err != nil {
		return fmt.Errorf("scoped %s: %w", strings.TrimSuffix(s.prefix, "/"), err)
	}
	return nil
}
