// Package ui holds the menu, HUD and overlay panels, the commands bound to
// them and their terminal rendering.
package ui

import (
	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/game"
	"github.com/tomz197/asteroids-neo/internal/input"
)

// Muter toggles the mute preference and returns the new state.
type Muter interface {
	ToggleMute() bool
}

// Manager tracks which panels are visible and the values they display.
// It implements game.Panels.
type Manager struct {
	visible map[game.Panel]bool

	score   int
	health  float64
	high    int
	final   int
	muted   bool
	newHigh bool
	shield  bool // Ship invincible after a hit

	muter  Muter
	bus    *event.Bus
	subs   event.Group
	logger *zap.Logger
}

var _ game.Panels = (*Manager)(nil)

// NewManager creates a manager with every panel hidden and subscribes it
// to the values the HUD shows.
func NewManager(muter Muter, bus *event.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		visible: make(map[game.Panel]bool),
		muter:   muter,
		bus:     bus,
		logger:  logger.Named("ui"),
	}
	m.subs.Add(event.Subscribe(bus, func(e event.ScoreUpdated) { m.score = e.Score }))
	m.subs.Add(event.Subscribe(bus, func(e event.PlayerHealthUpdated) { m.health = e.Health }))
	m.subs.Add(event.Subscribe(bus, func(e event.MuteChanged) { m.muted = e.Muted }))
	m.subs.Add(event.Subscribe(bus, func(e event.NewHighScore) {
		m.newHigh = true
		m.high = e.Score
	}))
	m.subs.Add(event.Subscribe(bus, func(event.InvincibilityStarted) { m.shield = true }))
	m.subs.Add(event.Subscribe(bus, func(event.InvincibilityEnded) { m.shield = false }))
	m.subs.Add(event.Subscribe(bus, func(event.PrepareNewGame) {
		m.newHigh = false
		m.shield = false
	}))
	return m
}

// SetMuter binds the mute command after construction, for when the audio
// manager is created after the UI.
func (m *Manager) SetMuter(muter Muter) { m.muter = muter }

// Close releases the manager's bus subscriptions.
func (m *Manager) Close() { m.subs.Close() }

// SetPanel implements game.Panels.
func (m *Manager) SetPanel(p game.Panel, visible bool) {
	if m.visible[p] == visible {
		return
	}
	m.visible[p] = visible
	m.logger.Debug("panel", zap.Stringer("panel", p), zap.Bool("visible", visible))
}

// PanelVisible implements game.Panels.
func (m *Manager) PanelVisible(p game.Panel) bool { return m.visible[p] }

// ShowHighScore implements game.Panels.
func (m *Manager) ShowHighScore(high int) { m.high = high }

// ShowFinalScores implements game.Panels.
func (m *Manager) ShowFinalScores(final, high int) {
	m.final = final
	m.high = high
}

// Score returns the score shown on the HUD.
func (m *Manager) Score() int { return m.score }

// Health returns the health shown on the HUD.
func (m *Manager) Health() float64 { return m.health }

// Shielded reports whether the HUD shows the invincibility indicator.
func (m *Manager) Shielded() bool { return m.shield }

// Muted returns the mute indicator state.
func (m *Manager) Muted() bool { return m.muted }

// RequestPlay starts a session from the main menu.
func (m *Manager) RequestPlay() {
	event.Publish(m.bus, event.StateChangeRequest{Target: event.StateGameplay})
}

// RequestRetry starts a new session from the game over screen.
func (m *Manager) RequestRetry() {
	event.Publish(m.bus, event.StateChangeRequest{Target: event.StateGameplay})
}

// RequestMainMenu returns to the title screen.
func (m *Manager) RequestMainMenu() {
	event.Publish(m.bus, event.StateChangeRequest{Target: event.StateMainMenu})
}

// ToggleMute flips the mute preference.
func (m *Manager) ToggleMute() {
	if m.muter == nil {
		return
	}
	m.muter.ToggleMute()
}

// ToggleTutorialPanel shows or hides the tutorial.
func (m *Manager) ToggleTutorialPanel() {
	m.SetPanel(game.PanelTutorial, !m.visible[game.PanelTutorial])
}

// ToggleCreditsPanel shows or hides the credits.
func (m *Manager) ToggleCreditsPanel() {
	m.SetPanel(game.PanelCredits, !m.visible[game.PanelCredits])
}

// HandleInput maps this tick's command keys to UI commands for the given
// state. Gameplay keys and pause are handled elsewhere.
func (m *Manager) HandleInput(in input.Input, state event.GameState) {
	if in.Mute {
		m.ToggleMute()
	}
	switch state {
	case event.StateMainMenu:
		if in.Credits {
			m.ToggleCreditsPanel()
		}
		if in.Enter {
			m.RequestPlay()
		}
	case event.StateGameplay:
		if in.Menu && m.visible[game.PanelPause] {
			m.RequestMainMenu()
		}
	case event.StateGameOver:
		switch {
		case in.Enter:
			m.RequestRetry()
		case in.Menu || in.Escape:
			m.RequestMainMenu()
		}
	}
}
