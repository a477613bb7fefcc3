package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/pool"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

// blastSparks is the number of sparks in one blast.
const blastSparks = 10

// spark is one fragment of a blast, moving out from its centre.
type spark struct {
	dir   physics.Vec2
	speed float64
	life  float64 // Fraction of the blast duration this spark stays visible
}

// Blast is a pooled explosion effect left where an asteroid was destroyed.
// It is purely visual and returns itself to its pool when its timer ends.
type Blast struct {
	Position physics.Vec2

	sparks   [blastSparks]spark
	radius   float64
	age      time.Duration
	duration time.Duration
	active   bool
	done     *timer.Timer
	pool     pool.Releaser[*Blast]
	rng      *rand.Rand
}

// NewBlast creates an idle blast bound to its pool.
func NewBlast(owner pool.Releaser[*Blast], sched *timer.Scheduler, rng *rand.Rand) *Blast {
	return &Blast{
		pool: owner,
		done: sched.NewTimer(),
		rng:  rng,
	}
}

// Activate implements pool.Poolable.
func (b *Blast) Activate() {
	b.active = true
	b.age = 0
}

// Deactivate implements pool.Poolable.
func (b *Blast) Deactivate() {
	b.active = false
	b.done.Stop()
}

// Active reports whether the blast is visible.
func (b *Blast) Active() bool { return b.active }

// Start places the blast at pos, scales its sparks to radius and arms the
// return timer.
func (b *Blast) Start(pos physics.Vec2, radius float64, d time.Duration) {
	b.Position = pos
	b.radius = radius
	b.duration = d
	secs := max(d.Seconds(), 0.001)
	for i := range b.sparks {
		angle := b.rng.Float64() * 2 * math.Pi
		b.sparks[i] = spark{
			dir:   physics.UnitFromAngle(angle),
			speed: radius * (0.5 + b.rng.Float64()) / secs, // 50% to 150% of radius over the blast
			life:  0.5 + b.rng.Float64()*0.5,               // 50% to 100% of the duration
		}
	}
	b.done.Start(d, func() { b.pool.Release(b) })
}

// Update ages the blast.
func (b *Blast) Update(ctx UpdateContext) (bool, error) {
	if !b.active {
		return true, nil
	}
	b.age += ctx.Delta
	return false, nil
}

// Draw renders each live spark as a pixel and, during the first third of
// the blast, an expanding shock ring.
func (b *Blast) Draw(ctx DrawContext) error {
	if !b.active || b.duration <= 0 {
		return nil
	}
	t := b.age.Seconds()
	frac := b.age.Seconds() / b.duration.Seconds()
	if frac < 1.0/3 {
		ctx.Canvas.DrawCircle(ctx.View.ToCanvas(b.Position), b.radius*frac*3)
	}
	for _, s := range b.sparks {
		if frac > s.life {
			continue
		}
		p := ctx.View.ToCanvas(b.Position.Add(s.dir.Scale(s.speed * t)))
		ctx.Canvas.SetFloat(p.X, p.Y)
	}
	return nil
}
