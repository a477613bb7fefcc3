package game

// Panel identifies a UI panel the state machine shows or hides.
type Panel uint8

const (
	PanelMainMenu Panel = iota + 1
	PanelHUD
	PanelPause
	PanelGameOver
	PanelTutorial
	PanelCredits
)

// String returns the panel name.
func (p Panel) String() string {
	switch p {
	case PanelMainMenu:
		return "MainMenu"
	case PanelHUD:
		return "HUD"
	case PanelPause:
		return "Pause"
	case PanelGameOver:
		return "GameOver"
	case PanelTutorial:
		return "Tutorial"
	case PanelCredits:
		return "Credits"
	default:
		return "Unknown"
	}
}

// Panels is the UI surface toggled by the state machine. The machine does
// not own the panels, it only shows and hides them.
type Panels interface {
	SetPanel(p Panel, visible bool)
	PanelVisible(p Panel) bool
	ShowHighScore(high int)
	ShowFinalScores(final, high int)
}

// Systems switches the gameplay systems (ship, spawner, entities) on and off.
type Systems interface {
	SetSystemsEnabled(enabled bool)
}

// Clock is the simulation time scale. timer.Scheduler implements it.
type Clock interface {
	Scale() float64
	SetScale(scale float64)
}

// Scores is the part of the score manager the state machine needs.
type Scores interface {
	Score() int
	HighScore() int
	SaveHighScore() bool
}
