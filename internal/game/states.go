package game

import (
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/input"
)

// defaultStates is the transition table.
func defaultStates() map[State]stateDef {
	return map[State]stateDef{
		event.StateMainMenu: {
			enter: enterMainMenu,
			tick:  tickMainMenu,
		},
		event.StateGameplay: {
			enter: enterGameplay,
			exit:  exitGameplay,
			tick:  tickGameplay,
		},
		event.StateGameOver: {
			enter: enterGameOver,
			exit:  exitGameOver,
		},
	}
}

func enterMainMenu(m *Machine) {
	p := m.deps.Panels
	p.SetPanel(PanelMainMenu, true)
	p.SetPanel(PanelHUD, false)
	p.SetPanel(PanelPause, false)
	p.SetPanel(PanelGameOver, false)
	p.SetPanel(PanelTutorial, false)
	m.deps.Systems.SetSystemsEnabled(false)
	p.ShowHighScore(m.deps.Scores.HighScore())
}

func tickMainMenu(m *Machine, in input.Input) {
	if in.Tutorial {
		p := m.deps.Panels
		p.SetPanel(PanelTutorial, !p.PanelVisible(PanelTutorial))
	}
}

func enterGameplay(m *Machine) {
	p := m.deps.Panels
	p.SetPanel(PanelMainMenu, false)
	p.SetPanel(PanelGameOver, false)
	p.SetPanel(PanelTutorial, false)
	p.SetPanel(PanelCredits, false)
	p.SetPanel(PanelPause, false)
	p.SetPanel(PanelHUD, true)
	m.deps.Systems.SetSystemsEnabled(true)
	m.paused = false
	m.deps.Clock.SetScale(1)
	event.Publish(m.bus, event.PrepareNewGame{})
}

func tickGameplay(m *Machine, in input.Input) {
	if in.Pause || in.Escape {
		m.TogglePause()
	}
}

func exitGameplay(m *Machine) {
	m.paused = false
	m.deps.Clock.SetScale(1)
	event.Publish(m.bus, event.SessionEnded{})
	p := m.deps.Panels
	p.SetPanel(PanelHUD, false)
	p.SetPanel(PanelPause, false)
	m.deps.Systems.SetSystemsEnabled(false)
}

func enterGameOver(m *Machine) {
	p := m.deps.Panels
	p.SetPanel(PanelMainMenu, false)
	p.SetPanel(PanelHUD, false)
	p.SetPanel(PanelCredits, false)
	p.SetPanel(PanelGameOver, true)
	s := m.deps.Scores
	p.ShowFinalScores(s.Score(), s.HighScore())
}

func exitGameOver(m *Machine) {
	m.deps.Panels.SetPanel(PanelGameOver, false)
}
