// Package game implements the game flow state machine: MainMenu, Gameplay
// and GameOver, and the side effects of moving between them.
package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/input"
)

// State aliases the state identifier carried by StateChangeRequest.
type State = event.GameState

// ErrUnknownState is returned for a target state with no table entry. It
// means broken wiring and is fatal to the game loop.
var ErrUnknownState = errors.New("unknown game state")

// stateDef is one row of the transition table.
type stateDef struct {
	enter func(m *Machine)
	exit  func(m *Machine)
	tick  func(m *Machine, in input.Input)
}

// Deps are the collaborators the machine toggles. None are owned.
type Deps struct {
	Panels  Panels
	Systems Systems
	Clock   Clock
	Scores  Scores
}

// Machine owns the current game state. Transitions are requested through
// StateChangeRequest on the bus; PlayerDied leads to GameOver after the
// high score is saved.
type Machine struct {
	deps    Deps
	states  map[State]stateDef
	current State
	paused  bool
	err     error

	bus    *event.Bus
	subs   event.Group
	logger *zap.Logger
}

// New creates a machine with no current state. Call Start to enter the
// main menu.
func New(deps Deps, bus *event.Bus, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Machine{
		deps:   deps,
		states: defaultStates(),
		bus:    bus,
		logger: logger.Named("game"),
	}
	m.subs.Add(event.Subscribe(bus, func(e event.StateChangeRequest) {
		_ = m.ChangeState(e.Target)
	}))
	m.subs.Add(event.Subscribe(bus, func(event.PlayerDied) { m.GoToGameOver() }))
	return m
}

// Close releases the machine's bus subscriptions.
func (m *Machine) Close() { m.subs.Close() }

// Start requests the initial MainMenu state over the bus so every listener
// sees the first transition.
func (m *Machine) Start() error {
	event.Publish(m.bus, event.StateChangeRequest{Target: event.StateMainMenu})
	return m.err
}

// Current returns the current state, or 0 before Start.
func (m *Machine) Current() State { return m.current }

// Paused reports whether gameplay is paused.
func (m *Machine) Paused() bool { return m.paused }

// Err returns the first fatal error the machine hit.
func (m *Machine) Err() error { return m.err }

// ChangeState exits the current state and enters target. Requesting the
// current state is a no-op.
func (m *Machine) ChangeState(target State) error {
	if target == m.current {
		m.logger.Debug("state already current", zap.Stringer("state", target))
		return nil
	}
	next, ok := m.states[target]
	if !ok {
		err := fmt.Errorf("%w: %d", ErrUnknownState, uint8(target))
		m.logger.Error("state change failed", zap.Error(err))
		if m.err == nil {
			m.err = err
		}
		return err
	}

	prev := m.current
	if cur, ok := m.states[prev]; ok && cur.exit != nil {
		cur.exit(m)
	}
	m.current = target
	m.logger.Info("state changed", zap.Stringer("from", prev), zap.Stringer("to", target))
	if next.enter != nil {
		next.enter(m)
	}
	return nil
}

// GoToGameOver saves the high score, then requests GameOver.
func (m *Machine) GoToGameOver() {
	m.deps.Scores.SaveHighScore()
	event.Publish(m.bus, event.StateChangeRequest{Target: event.StateGameOver})
}

// Tick runs the current state's per-tick handler.
func (m *Machine) Tick(in input.Input) {
	if def, ok := m.states[m.current]; ok && def.tick != nil {
		def.tick(m, in)
	}
}

// TogglePause freezes or resumes simulation time. Only Gameplay can pause.
func (m *Machine) TogglePause() {
	if m.current != event.StateGameplay {
		return
	}
	m.paused = !m.paused
	if m.paused {
		m.deps.Clock.SetScale(0)
	} else {
		m.deps.Clock.SetScale(1)
	}
	m.deps.Panels.SetPanel(PanelPause, m.paused)
	m.logger.Debug("pause toggled", zap.Bool("paused", m.paused))
}
