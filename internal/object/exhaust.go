package object

import (
	"math"
	"time"

	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/pool"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

// exhaustDrag is the velocity kept per 1/60 s.
const exhaustDrag = 0.85

// Exhaust is one pooled thrust particle trailing the ship.
type Exhaust struct {
	Position physics.Vec2
	Velocity physics.Vec2

	active bool
	done   *timer.Timer
	pool   pool.Releaser[*Exhaust]
}

// NewExhaust creates an idle particle bound to its pool.
func NewExhaust(owner pool.Releaser[*Exhaust], sched *timer.Scheduler) *Exhaust {
	return &Exhaust{pool: owner, done: sched.NewTimer()}
}

// Activate implements pool.Poolable.
func (e *Exhaust) Activate() { e.active = true }

// Deactivate implements pool.Poolable.
func (e *Exhaust) Deactivate() {
	e.active = false
	e.done.Stop()
}

// Active reports whether the particle is visible.
func (e *Exhaust) Active() bool { return e.active }

// Start launches the particle and arms its return timer.
func (e *Exhaust) Start(pos, vel physics.Vec2, life time.Duration) {
	e.Position = pos
	e.Velocity = vel
	e.done.Start(life, func() { e.pool.Release(e) })
}

// Update moves the particle with drag.
func (e *Exhaust) Update(ctx UpdateContext) (bool, error) {
	if !e.active {
		return true, nil
	}
	dt := ctx.Seconds()
	e.Velocity = e.Velocity.Scale(math.Pow(exhaustDrag, dt*60))
	e.Position = ctx.Wrap(e.Position.Add(e.Velocity.Scale(dt)))
	return false, nil
}

// Draw renders the particle as a single pixel.
func (e *Exhaust) Draw(ctx DrawContext) error {
	if !e.active {
		return nil
	}
	p := ctx.View.ToCanvas(e.Position)
	ctx.Canvas.SetFloat(p.X, p.Y)
	return nil
}

var _ Object = (*Exhaust)(nil)
