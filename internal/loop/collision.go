package loop

import (
	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/object"
	"github.com/tomz197/asteroids-neo/internal/physics"
)

// collider resolves ammo and ship hits against asteroids through a spatial
// grid rebuilt every tick. Slices are reused between ticks.
type collider struct {
	grid      *physics.SpatialGrid
	asteroids []*object.Asteroid
}

// newCollider sizes grid cells to the largest interaction distance so every
// overlap is found in the 3x3 neighbourhood.
func newCollider(b physics.Bounds, margin float64, ents *config.Entities) *collider {
	var rock float64
	for _, a := range ents.Asteroids {
		rock = max(rock, a.Radius)
	}
	cell := max(rock+max(ents.Ship.Radius, ents.Ammo.Radius), 1)
	return &collider{grid: physics.NewSpatialGrid(b, margin, cell)}
}

// resolve runs ammo against asteroids, then asteroids against the ship.
// Resolution stops as soon as the systems are switched off, which happens
// when a hit kills the ship and GameOver is entered.
func (c *collider) resolve(w *World) error {
	c.asteroids = c.asteroids[:0]
	w.rocks.Each(func(a *object.Asteroid) { c.asteroids = append(c.asteroids, a) })
	c.grid.Clear()
	for i, a := range c.asteroids {
		c.grid.Insert(a.Position, i)
	}

	var err error
	w.ammo.Each(func(shot *object.Ammo) {
		if err != nil || !w.systems || !shot.Active() {
			return
		}
		c.grid.QueryAround(shot.Position, func(i int) bool {
			a := c.asteroids[i]
			if !a.Active() || !physics.CirclesOverlap(shot.Position, shot.Radius(), a.Position, a.Radius()) {
				return false
			}
			err = shot.Hit(a)
			return true
		})
	})
	if err != nil || !w.systems {
		return err
	}

	// Contact destroys every touching asteroid. An invincible ship takes no
	// damage but still breaks what it hits.
	ship := w.ship
	if !ship.Alive() {
		return nil
	}
	c.grid.QueryAround(ship.Position, func(i int) bool {
		a := c.asteroids[i]
		if !a.Active() || !physics.CirclesOverlap(ship.Position, ship.Radius(), a.Position, a.Radius()) {
			return false
		}
		// A fatal hit publishes PlayerDied inside HitShip, so GameOver is
		// entered and the high score saved before this asteroid's points
		// are added.
		_, err = a.HitShip(ship)
		return err != nil || !w.systems
	})
	return err
}
