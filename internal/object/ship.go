package object

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

// AmmoMaker hands out ammo ready to fire.
type AmmoMaker interface {
	Create() (*Ammo, error)
}

// Ship is the player-controlled spaceship (Asteroids-style). It combines
// movement, shooting and health with a post-damage invincibility window.
type Ship struct {
	Position physics.Vec2
	Velocity physics.Vec2
	Rotation float64 // Degrees, 0 = pointing up, increases counter-clockwise
	Health   float64

	Config *config.Ship

	alive      bool
	thrusting  bool
	nextShot   time.Duration // Simulation time of the next allowed shot
	invincible *timer.Timer

	ammo   AmmoMaker
	sched  *timer.Scheduler
	bus    *event.Bus
	subs   event.Group
	logger *zap.Logger
}

// NewShip creates a ship at the origin. It resets itself on PrepareNewGame
// until Close is called.
func NewShip(cfg *config.Ship, ammo AmmoMaker, sched *timer.Scheduler, bus *event.Bus, logger *zap.Logger) *Ship {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Ship{
		Config:     cfg,
		ammo:       ammo,
		sched:      sched,
		invincible: sched.NewTimer(),
		bus:        bus,
		logger:     logger.Named("ship"),
	}
	s.subs.Add(event.Subscribe(bus, func(event.PrepareNewGame) { s.Reset() }))
	s.Reset()
	return s
}

// Close releases the ship's bus subscriptions.
func (s *Ship) Close() {
	s.subs.Close()
}

// Reset puts the ship back at the origin, pointing up, at rest, with full
// health.
func (s *Ship) Reset() {
	s.Position = physics.Vec2{}
	s.Velocity = physics.Vec2{}
	s.Rotation = 0
	s.Health = s.Config.MaxHealth
	s.alive = true
	s.nextShot = 0
	s.invincible.Stop()
	s.setThrust(false)
	event.Publish(s.bus, event.PlayerHealthUpdated{Health: s.Health})
}

// Alive reports whether the ship still has health.
func (s *Ship) Alive() bool { return s.alive }

// Invincible reports whether damage is currently ignored.
func (s *Ship) Invincible() bool { return s.invincible.Active() }

// Radius returns the collision radius.
func (s *Ship) Radius() float64 { return s.Config.Radius }

// TakeDamage reduces health unless the ship is invincible or dead. Reaching
// zero publishes PlayerDied once; otherwise the invincibility window starts.
// Implements Damageable.
func (s *Ship) TakeDamage(amount float64) error {
	if !s.alive || s.invincible.Active() {
		return nil
	}

	s.Health = max(s.Health-amount, 0)
	event.Publish(s.bus, event.PlayerHealthUpdated{Health: s.Health})

	if s.Health <= 0 {
		s.alive = false
		s.setThrust(false)
		s.logger.Info("ship destroyed")
		event.Publish(s.bus, event.PlayerDied{})
		return nil
	}

	event.Publish(s.bus, event.InvincibilityStarted{})
	s.invincible.Start(s.Config.InvincibilityDuration(), func() {
		event.Publish(s.bus, event.InvincibilityEnded{})
	})
	return nil
}

// Update handles rotation, thrust with drag, momentum and shooting.
func (s *Ship) Update(ctx UpdateContext) (bool, error) {
	if !s.alive || ctx.Delta <= 0 {
		s.setThrust(false)
		return false, nil
	}
	dt := ctx.Seconds()
	in := ctx.Input

	// Rotation (left turns counter-clockwise)
	if in.Left {
		s.Rotation += s.Config.RotationSpeed * dt
	}
	if in.Right {
		s.Rotation -= s.Config.RotationSpeed * dt
	}
	s.Rotation = math.Mod(s.Rotation, 360)

	// Thrust forward uses the normal drag, reverse input brakes harder
	drag := s.Config.LinearDrag
	switch {
	case in.Up:
		s.Velocity = s.Velocity.Add(physics.Heading(s.Rotation).Scale(s.Config.Acceleration * dt))
	case in.Down:
		drag = s.Config.BrakingDrag
	}
	s.setThrust(in.Up)
	s.Velocity = s.Velocity.Scale(1 / (1 + drag*dt)).ClampLen(s.Config.MaxSpeed)
	s.Position = ctx.Wrap(s.Position.Add(s.Velocity.Scale(dt)))

	if in.Space {
		s.fire()
	}
	return false, nil
}

// fire launches one ammo from the nose if the fire rate allows it.
func (s *Ship) fire() {
	now := s.sched.Now()
	if now < s.nextShot {
		return
	}
	a, err := s.ammo.Create()
	if err != nil {
		s.logger.Debug("cannot fire", zap.Error(err))
		return
	}
	s.nextShot = now + s.Config.FireInterval()
	a.Fire(s.nose(), s.Rotation)
	event.Publish(s.bus, event.WeaponFired{})
}

func (s *Ship) nose() physics.Vec2 {
	return s.Position.Add(physics.Heading(s.Rotation).Scale(s.Config.Radius))
}

// Tail returns the point behind the ship where exhaust leaves.
func (s *Ship) Tail() physics.Vec2 {
	return s.Position.Sub(physics.Heading(s.Rotation).Scale(s.Config.Radius))
}

// Thrusting reports whether the engine is on.
func (s *Ship) Thrusting() bool { return s.thrusting }

func (s *Ship) setThrust(on bool) {
	if s.thrusting == on {
		return
	}
	s.thrusting = on
	event.Publish(s.bus, event.ThrustChanged{On: on})
}

// Draw renders the spaceship as a triangle pointing along its heading.
// The ship blinks while invincible.
func (s *Ship) Draw(ctx DrawContext) error {
	if !s.alive {
		return nil
	}
	if !ShouldRenderBlink(s.invincible.Remaining().Seconds(), 5.0) {
		return nil
	}

	size := s.Config.Radius * 1.5
	left := physics.Heading(s.Rotation + 140).Scale(size * 0.7)
	right := physics.Heading(s.Rotation - 140).Scale(size * 0.7)
	nose := physics.Heading(s.Rotation).Scale(size)

	triangle := ctx.Canvas.BorrowPoints(3)
	triangle[0] = ctx.View.ToCanvas(s.Position.Add(nose))
	triangle[1] = ctx.View.ToCanvas(s.Position.Add(left))
	triangle[2] = ctx.View.ToCanvas(s.Position.Add(right))
	ctx.Canvas.DrawPolygon(triangle, true)
	return nil
}

var _ Object = (*Ship)(nil)
