package object

import (
	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/pool"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

// Ammo is a pooled projectile fired by the ship.
type Ammo struct {
	Position physics.Vec2
	Velocity physics.Vec2
	Rotation float64 // Firing heading in degrees, 0 = up

	Config *config.Ammo

	active   bool
	lifetime *timer.Timer // Returns the ammo to its pool when it fires
	pool     pool.Releaser[*Ammo]
	logger   *zap.Logger
}

// NewAmmo creates idle ammo bound to its config and pool.
func NewAmmo(cfg *config.Ammo, owner pool.Releaser[*Ammo], sched *timer.Scheduler, logger *zap.Logger) *Ammo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ammo{
		Config:   cfg,
		pool:     owner,
		lifetime: sched.NewTimer(),
		logger:   logger,
	}
}

// Activate implements pool.Poolable.
func (a *Ammo) Activate() {
	a.active = true
}

// Deactivate stops the lifetime timer. Implements pool.Poolable.
func (a *Ammo) Deactivate() {
	a.active = false
	a.lifetime.Stop()
	a.Velocity = physics.Vec2{}
}

// Active reports whether the ammo is in flight.
func (a *Ammo) Active() bool { return a.active }

// Radius returns the collision radius.
func (a *Ammo) Radius() float64 { return a.Config.Radius }

// Remaining returns the lifetime left.
func (a *Ammo) Remaining() float64 { return a.lifetime.Remaining().Seconds() }

// Fire launches the ammo from pos along heading (degrees) and arms its
// lifetime timer.
func (a *Ammo) Fire(pos physics.Vec2, heading float64) {
	a.Position = pos
	a.Rotation = heading
	a.Velocity = physics.Heading(heading).Scale(a.Config.Speed)
	a.lifetime.Start(a.Config.LifetimeDuration(), a.expire)
}

func (a *Ammo) expire() {
	a.pool.Release(a)
}

// Hit applies the configured damage to target and returns the ammo to its
// pool at once, cancelling the lifetime timer.
func (a *Ammo) Hit(target Damageable) error {
	if !a.active {
		a.logger.Debug("hit by inactive ammo ignored")
		return nil
	}
	err := target.TakeDamage(float64(a.Config.Damage))
	a.pool.Release(a)
	return err
}

// Update moves the ammo along its heading.
func (a *Ammo) Update(ctx UpdateContext) (bool, error) {
	if !a.active {
		return true, nil
	}
	a.Position = ctx.Wrap(a.Position.Add(a.Velocity.Scale(ctx.Seconds())))
	return false, nil
}

// Draw renders the ammo as a single pixel.
func (a *Ammo) Draw(ctx DrawContext) error {
	if !a.active {
		return nil
	}
	p := ctx.View.ToCanvas(a.Position)
	ctx.Canvas.SetFloat(p.X, p.Y)
	return nil
}
