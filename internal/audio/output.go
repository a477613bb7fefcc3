// Package audio plays state music and sound effects in response to game
// events. Sound generation is behind Output so the game runs silent in
// tests and over SSH.
package audio

import "github.com/tomz197/asteroids-neo/internal/config"

// Output is the sound device the manager drives.
type Output interface {
	// PlayMusic replaces the looping music track.
	PlayMusic(clip *config.Clip)
	StopMusic()
	// PlaySFX plays clip once, mixed over everything else.
	PlaySFX(clip *config.Clip)
	// StartLoop starts the single looping effect channel (engine thrust).
	StartLoop(clip *config.Clip)
	StopLoop()
	SetMuted(muted bool)
	Close() error
}

// Nop is a silent Output.
type Nop struct{}

func (Nop) PlayMusic(*config.Clip) {}
func (Nop) StopMusic() {}
func (Nop) PlaySFX(*config.Clip) {}
func (Nop) StartLoop(*config.Clip) {}
func (Nop) StopLoop() {}
func (Nop) SetMuted(bool) {}
func (Nop) Close() error { return nil }
