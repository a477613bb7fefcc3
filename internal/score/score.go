// Package score keeps the session score and the persisted high score.
package score

import (
	"context"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/prefs"
)

// Manager accumulates points from destroyed asteroids. The score only
// grows within a session and resets on PrepareNewGame.
type Manager struct {
	score int
	high  int

	store  prefs.Store
	bus    *event.Bus
	subs   event.Group
	logger *zap.Logger
}

// NewManager loads the stored high score and subscribes to the events that
// drive scoring. A failed load is logged and the high score starts at 0.
func NewManager(store prefs.Store, bus *event.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:  store,
		bus:    bus,
		logger: logger.Named("score"),
	}

	high, err := prefs.Int(context.Background(), store, prefs.KeyHighScore, 0)
	if err != nil {
		m.logger.Error("load high score", zap.Error(err))
	}
	m.high = high

	m.subs.Add(event.Subscribe(bus, func(e event.AsteroidDestroyed) {
		if e.Config != nil {
			m.Add(e.Config.ScoreValue)
		}
	}))
	m.subs.Add(event.Subscribe(bus, func(event.PrepareNewGame) { m.Reset() }))
	return m
}

// Close releases the manager's bus subscriptions.
func (m *Manager) Close() { m.subs.Close() }

// Score returns the current session score.
func (m *Manager) Score() int { return m.score }

// HighScore returns the best saved score.
func (m *Manager) HighScore() int { return m.high }

// Add adds points and publishes ScoreUpdated. Non-positive amounts are
// ignored so the score never decreases.
func (m *Manager) Add(points int) {
	if points <= 0 {
		return
	}
	m.score += points
	event.Publish(m.bus, event.ScoreUpdated{Score: m.score})
}

// Reset zeroes the session score.
func (m *Manager) Reset() {
	m.score = 0
	event.Publish(m.bus, event.ScoreUpdated{Score: 0})
}

// SaveHighScore stores the current score if it beats the high score and
// publishes NewHighScore. It reports whether the high score changed. A
// failed write is logged; the in-memory high score is still updated.
func (m *Manager) SaveHighScore() bool {
	if m.score <= m.high {
		return false
	}
	m.high = m.score
	if err := m.store.PutInt(context.Background(), prefs.KeyHighScore, m.high); err != nil {
		m.logger.Error("save high score", zap.Int("score", m.high), zap.Error(err))
	}
	m.logger.Info("new high score", zap.Int("score", m.high))
	event.Publish(m.bus, event.NewHighScore{Score: m.high})
	return true
}
