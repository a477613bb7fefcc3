package factory

import (
	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/object"
	"github.com/tomz197/asteroids-neo/internal/pool"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

// Ammo owns the ammo pool.
type Ammo struct {
	pool   *pool.Pool[*object.Ammo]
	subs   event.Group
	logger *zap.Logger
}

// NewAmmo creates the ammo factory and pre-populates its pool. A nil cfg
// leaves the factory unconfigured: Create then returns ErrNotConfigured.
func NewAmmo(cfg *config.Ammo, initialSize int, sched *timer.Scheduler, bus *event.Bus, logger *zap.Logger) *Ammo {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Ammo{logger: logger.Named("ammo_factory")}
	if cfg == nil {
		f.logger.Error("ammo config missing")
		return f
	}

	f.pool = pool.New("ammo", func(p *pool.Pool[*object.Ammo]) *object.Ammo {
		return object.NewAmmo(cfg, p, sched, f.logger)
	}, logger)
	f.pool.Initialize(initialSize)

	f.subs.Add(event.Subscribe(bus, func(event.PrepareNewGame) { f.ResetAll() }))
	return f
}

// Create hands out one ammo. Implements object.AmmoMaker.
func (f *Ammo) Create() (*object.Ammo, error) {
	if f.pool == nil {
		f.logger.Error("create on unconfigured ammo factory")
		return nil, ErrNotConfigured
	}
	return f.pool.Acquire(), nil
}

// ResetAll returns every active ammo to the pool.
func (f *Ammo) ResetAll() int {
	if f.pool == nil {
		return 0
	}
	n := f.pool.ReleaseAll()
	f.logger.Debug("ammo reset", zap.Int("released", n))
	return n
}

// Each calls fn for every active ammo. fn may release the instance.
func (f *Ammo) Each(fn func(a *object.Ammo)) {
	if f.pool != nil {
		f.pool.Each(fn)
	}
}

// Pool exposes the underlying pool for inspection.
func (f *Ammo) Pool() *pool.Pool[*object.Ammo] { return f.pool }

// Close releases the factory's bus subscriptions.
func (f *Ammo) Close() { f.subs.Close() }

var _ object.AmmoMaker = (*Ammo)(nil)
