package loop

import (
	"testing"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/input"
	"github.com/tomz197/asteroids-neo/internal/object"
	"github.com/tomz197/asteroids-neo/internal/physics"
)

func TestShipContactDestroysAsteroids(t *testing.T) {
	tests := []struct {
		name       string
		invincible bool
		rocks      []physics.Vec2
		wantHealth float64 // Lost from max health
	}{
		{"vulnerable ship", false, []physics.Vec2{{X: 0.5, Y: 0}}, 1},
		{"invincible ship", true, []physics.Vec2{{X: 0.5, Y: 0}}, 0},
		{"two rocks in one tick", false, []physics.Vec2{{X: 0.5, Y: 0}, {X: -0.5, Y: 0.5}}, 1},
		{"two rocks while invincible", true, []physics.Vec2{{X: 0.5, Y: 0}, {X: 0, Y: -0.5}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newTestWorld(t)
			startGame(t, w)
			ship := w.Ship()
			start := ship.Health
			if tt.invincible {
				if err := ship.TakeDamage(1); err != nil {
					t.Fatal(err)
				}
				if !ship.Invincible() {
					t.Fatal("ship not invincible after damage")
				}
				start = ship.Health
			}

			var rocks []*object.Asteroid
			for _, pos := range tt.rocks {
				a, err := w.Asteroids().Create(config.SizeLarge)
				if err != nil {
					t.Fatal(err)
				}
				a.Position = pos
				a.Velocity = physics.Vec2{}
				rocks = append(rocks, a)
			}

			step(t, w, input.Input{})

			for i, a := range rocks {
				if a.Active() {
					t.Errorf("rock %d still active after touching the ship", i)
				}
			}
			if got, want := w.Score().Score(), len(rocks)*rocks[0].Config.ScoreValue; got != want {
				t.Errorf("score = %d, want %d", got, want)
			}
			if got := start - ship.Health; got != tt.wantHealth {
				t.Errorf("health lost = %v, want %v", got, tt.wantHealth)
			}
			if !w.UI().Shielded() {
				t.Error("HUD shows no shield while the ship is invincible")
			}
		})
	}
}
