package event

import (
	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/physics"
)

// GameState identifies one of the game flow states.
type GameState uint8

const (
	StateMainMenu GameState = iota + 1 // Title screen (initial)
	StateGameplay                      // Active session
	StateGameOver                      // Player died, final scores shown
)

// String returns the state name.
func (s GameState) String() string {
	switch s {
	case StateMainMenu:
		return "MainMenu"
	case StateGameplay:
		return "Gameplay"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// StateChangeRequest asks the state machine to move to Target.
// Trigger: UI commands, player death | Consumer: game.Machine, audio.Manager
type StateChangeRequest struct {
	Target GameState
}

// PrepareNewGame resets every session-scoped system.
// Trigger: entering Gameplay | Consumer: factories, spawner, score, ship
type PrepareNewGame struct{}

// SessionEnded marks the end of a gameplay session.
// Trigger: leaving Gameplay | Consumer: spawner
type SessionEnded struct{}

// NewHighScore is published when a saved score beats the stored high score.
// Consumer: audio.Manager (victory music), ui.Manager
type NewHighScore struct {
	Score int
}

// MuteChanged reports the current mute preference.
// Trigger: audio startup and ToggleMute | Consumer: ui.Manager
type MuteChanged struct {
	Muted bool
}

// ScoreUpdated carries the new session score.
// Trigger: asteroid destroyed, score reset | Consumer: ui.Manager
type ScoreUpdated struct {
	Score int
}

// WeaponFired is published for each ammo the ship fires.
// Consumer: audio.Manager
type WeaponFired struct{}

// PlayerDied is published once when ship health reaches zero.
// Consumer: game.Machine (GameOver), audio.Manager
type PlayerDied struct{}

// PlayerHealthUpdated carries the ship's current health.
// Consumer: ui.Manager
type PlayerHealthUpdated struct {
	Health float64
}

// InvincibilityStarted marks the start of the post-damage invincibility window.
// Trigger: object.Ship | Consumer: ui.Manager (shield indicator)
type InvincibilityStarted struct{}

// InvincibilityEnded marks the end of the invincibility window.
// Trigger: object.Ship timer | Consumer: ui.Manager (shield indicator)
type InvincibilityEnded struct{}

// AsteroidDestroyed is published by both asteroid destruction paths.
// Consumer: score.Manager, audio.Manager, factory.Effects
type AsteroidDestroyed struct {
	Config   *config.Asteroid
	Position physics.Vec2
}

// ThrustChanged reports the ship engine starting or stopping.
// Trigger: object.Ship | Consumer: audio.Manager (thrust loop), factory.Effects (exhaust)
type ThrustChanged struct {
	On bool
}
