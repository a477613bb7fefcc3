package factory

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/object"
	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/pool"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

// Effects owns the blast and exhaust pools. It leaves a blast wherever an
// asteroid is destroyed and trails exhaust behind the ship while
// ThrustChanged reports the engine on.
type Effects struct {
	pool      *pool.Pool[*object.Blast]
	exhaust   *pool.Pool[*object.Exhaust]
	duration  time.Duration
	thrusting bool
	rng       *rand.Rand
	subs      event.Group
	logger    *zap.Logger
}

// NewEffects creates the effects factory and subscribes it to asteroid
// destruction.
func NewEffects(initialSize int, duration time.Duration, sched *timer.Scheduler, bus *event.Bus, rng *rand.Rand, logger *zap.Logger) *Effects {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Effects{
		duration: duration,
		rng:      rng,
		logger:   logger.Named("effects"),
	}
	f.pool = pool.New("blast", func(p *pool.Pool[*object.Blast]) *object.Blast {
		return object.NewBlast(p, sched, rng)
	}, logger)
	f.pool.Initialize(initialSize)
	f.exhaust = pool.New("exhaust", func(p *pool.Pool[*object.Exhaust]) *object.Exhaust {
		return object.NewExhaust(p, sched)
	}, logger)
	f.exhaust.Initialize(initialSize)

	f.subs.Add(event.Subscribe(bus, func(e event.AsteroidDestroyed) {
		radius := 1.0
		if e.Config != nil {
			radius = e.Config.Radius
		}
		f.Spawn(e.Position, radius)
	}))
	f.subs.Add(event.Subscribe(bus, func(e event.ThrustChanged) { f.thrusting = e.On }))
	f.subs.Add(event.Subscribe(bus, func(event.PrepareNewGame) {
		f.pool.ReleaseAll()
		f.exhaust.ReleaseAll()
	}))
	return f
}

// Spawn places a blast at pos sized to radius.
func (f *Effects) Spawn(pos physics.Vec2, radius float64) *object.Blast {
	b := f.pool.Acquire()
	b.Start(pos, radius, f.duration)
	return b
}

// Trail emits one or two exhaust particles from tail, heading away from
// heading (degrees), while the engine is on. It returns how many it spawned.
func (f *Effects) Trail(tail physics.Vec2, heading float64) int {
	if !f.thrusting {
		return 0
	}
	n := 1 + f.rng.Intn(2)
	for range n {
		spread := (f.rng.Float64() - 0.5) * 30
		speed := 8 + f.rng.Float64()*4
		life := time.Duration((0.1 + f.rng.Float64()*0.15) * float64(time.Second))
		vel := physics.Heading(heading + 180 + spread).Scale(speed)
		f.exhaust.Acquire().Start(tail, vel, life)
	}
	return n
}

// EachExhaust calls fn for every visible exhaust particle.
func (f *Effects) EachExhaust(fn func(e *object.Exhaust)) {
	f.exhaust.Each(fn)
}

// ExhaustPool exposes the exhaust pool for inspection.
func (f *Effects) ExhaustPool() *pool.Pool[*object.Exhaust] { return f.exhaust }

// Each calls fn for every visible blast.
func (f *Effects) Each(fn func(b *object.Blast)) {
	f.pool.Each(fn)
}

// Pool exposes the underlying pool for inspection.
func (f *Effects) Pool() *pool.Pool[*object.Blast] { return f.pool }

// Close releases the factory's bus subscriptions.
func (f *Effects) Close() { f.subs.Close() }
