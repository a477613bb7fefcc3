package object

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/draw"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/pool"
)

// Spin range applied on activation, in degrees per second.
const maxAngularVelocity = 100.0

// splitJitter is the radius of the random offset given to each fragment.
const splitJitter = 0.5

// AsteroidMaker creates asteroids of a size category. The asteroid factory
// implements it and injects itself into every asteroid it hands out.
type AsteroidMaker interface {
	Create(size config.AsteroidSize) (*Asteroid, error)
}

// Asteroid is a pooled space rock that splits into smaller rocks when
// destroyed.
type Asteroid struct {
	Position        physics.Vec2
	Velocity        physics.Vec2
	Rotation        float64 // Degrees
	AngularVelocity float64 // Degrees per second

	Config *config.Asteroid

	vertices []float64 // Vertex distances from center (for irregular shape)
	active   bool

	pool   pool.Releaser[*Asteroid] // Owning pool, lookup only
	maker  AsteroidMaker            // Factory that handed this instance out
	bus    *event.Bus
	rng    *rand.Rand
	logger *zap.Logger
}

// NewAsteroid creates an idle asteroid bound to a config and its pool.
func NewAsteroid(cfg *config.Asteroid, owner pool.Releaser[*Asteroid], bus *event.Bus, rng *rand.Rand, logger *zap.Logger) *Asteroid {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Asteroid{
		Config: cfg,
		pool:   owner,
		bus:    bus,
		rng:    rng,
		logger: logger,
	}
}

// SetMaker injects the factory used to spawn fragments.
func (a *Asteroid) SetMaker(m AsteroidMaker) {
	a.maker = m
}

// Activate gives the asteroid a random speed in the config range, a random
// direction and a random spin. Implements pool.Poolable.
func (a *Asteroid) Activate() {
	a.active = true
	speed := uniform(a.rng, a.Config.MinSpeed, a.Config.MaxSpeed)
	a.Velocity = physics.UnitFromAngle(a.rng.Float64() * 2 * math.Pi).Scale(speed)
	a.AngularVelocity = uniform(a.rng, -maxAngularVelocity, maxAngularVelocity)
	a.Rotation = a.rng.Float64() * 360

	// Irregular polygon with 8-12 vertices, radius varied by ±30%
	n := 8 + a.rng.Intn(5)
	a.vertices = a.vertices[:0]
	for range n {
		a.vertices = append(a.vertices, a.Config.Radius*(0.7+a.rng.Float64()*0.6))
	}
}

// Deactivate implements pool.Poolable.
func (a *Asteroid) Deactivate() {
	a.active = false
	a.Velocity = physics.Vec2{}
	a.AngularVelocity = 0
}

// Active reports whether the asteroid is in play.
func (a *Asteroid) Active() bool { return a.active }

// Radius returns the collision radius.
func (a *Asteroid) Radius() float64 { return a.Config.Radius }

// TakeDamage destroys the asteroid. Any positive damage is fatal.
// Implements Damageable.
func (a *Asteroid) TakeDamage(amount float64) error {
	_, err := a.Destroy()
	return err
}

// HitShip is the collision path: it damages the ship by the configured
// amount, then destroys the asteroid exactly like TakeDamage.
func (a *Asteroid) HitShip(ship Damageable) (bool, error) {
	if !a.active {
		a.logger.Debug("ship collision with inactive asteroid ignored")
		return false, nil
	}
	if err := ship.TakeDamage(a.Config.DamageToPlayer); err != nil {
		return false, err
	}
	return a.Destroy()
}

// Destroy publishes AsteroidDestroyed, spawns fragments and returns the
// asteroid to its pool. It is a no-op on an asteroid that is no longer
// active, so a weapon hit and a ship collision in the same tick destroy it
// once.
func (a *Asteroid) Destroy() (bool, error) {
	if !a.active {
		a.logger.Debug("destroy of inactive asteroid ignored")
		return false, nil
	}

	event.Publish(a.bus, event.AsteroidDestroyed{Config: a.Config, Position: a.Position})
	err := a.split()
	a.pool.Release(a)
	return true, err
}

// split requests the configured number of fragments from the factory.
func (a *Asteroid) split() error {
	child := a.Config.Split
	if !a.Config.CanSplit || child == nil {
		return nil
	}
	if a.maker == nil {
		a.logger.Warn("asteroid has no factory, fragments skipped", zap.String("asteroid", a.Config.Name))
		return nil
	}

	count := a.Config.MinSplitCount + a.rng.Intn(a.Config.MaxSplitCount-a.Config.MinSplitCount+1)
	for range count {
		frag, err := a.maker.Create(child.Size)
		if err != nil {
			return fmt.Errorf("split %s: %w", a.Config.Name, err)
		}
		frag.Position = a.Position.Add(insideUnitCircle(a.rng).Scale(splitJitter))
	}
	return nil
}

// Update moves and spins the asteroid.
func (a *Asteroid) Update(ctx UpdateContext) (bool, error) {
	if !a.active {
		return true, nil
	}
	dt := ctx.Seconds()
	a.Rotation += a.AngularVelocity * dt
	a.Position = ctx.Wrap(a.Position.Add(a.Velocity.Scale(dt)))
	return false, nil
}

// Draw renders the asteroid as an irregular polygon.
func (a *Asteroid) Draw(ctx DrawContext) error {
	numVerts := len(a.vertices)
	if !a.active || numVerts < 3 {
		return nil
	}

	center := ctx.View.ToCanvas(a.Position)
	points := ctx.Canvas.BorrowPoints(numVerts)
	rot := a.Rotation * math.Pi / 180
	for i, dist := range a.vertices {
		vertAngle := rot + float64(i)*2*math.Pi/float64(numVerts)
		points[i] = draw.Point{
			X: center.X + math.Cos(vertAngle)*dist,
			Y: center.Y - math.Sin(vertAngle)*dist,
		}
	}
	ctx.Canvas.DrawPolygon(points, false)
	return nil
}
