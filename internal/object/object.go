package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/asteroids-neo/internal/draw"
	"github.com/tomz197/asteroids-neo/internal/input"
	"github.com/tomz197/asteroids-neo/internal/physics"
)

// Input is an alias for the input package's Input type.
type Input = input.Input

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta  time.Duration  // Scaled simulation step (zero while paused)
	Input  Input          // Key state for this tick
	Bounds physics.Bounds // Play field, centred on the origin
	Margin float64        // Distance past the edge before wrapping
}

// Seconds returns Delta in seconds.
func (c UpdateContext) Seconds() float64 { return c.Delta.Seconds() }

// Wrap applies screen wrapping to p.
func (c UpdateContext) Wrap(p physics.Vec2) physics.Vec2 {
	return c.Bounds.Wrap(p, c.Margin)
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // High-resolution canvas (2x vertical)
	View   Viewport     // World to canvas mapping
}

// Viewport maps origin-centred world coordinates (+Y up) onto the canvas
// logical space (origin top-left, +Y down). The canvas logical size equals
// the view size, so one world unit is one logical unit.
type Viewport struct {
	Bounds physics.Bounds
}

// ToCanvas converts a world position to canvas logical coordinates.
func (v Viewport) ToCanvas(p physics.Vec2) draw.Point {
	return draw.Point{X: p.X + v.Bounds.HalfWidth, Y: v.Bounds.HalfHeight - p.Y}
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update advances the object by one tick. remove reports that the object
	// left play during this update (pooled objects have already returned
	// themselves to their pool).
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object onto ctx.Canvas.
	Draw(ctx DrawContext) error
}

// Damageable is implemented by anything ammo or asteroids can hurt.
type Damageable interface {
	TakeDamage(amount float64) error
}

// ShouldRenderBlink returns true if an object with remaining protection/invincibility
// time should be rendered this frame (for blinking effect).
// Returns true always if remainingTime <= 0 (no protection).
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}

// insideUnitCircle returns a uniformly distributed point in the unit disc.
func insideUnitCircle(rng *rand.Rand) physics.Vec2 {
	r := math.Sqrt(rng.Float64())
	return physics.UnitFromAngle(rng.Float64() * 2 * math.Pi).Scale(r)
}

// uniform returns a value in [lo, hi].
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
