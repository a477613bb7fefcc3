package factory

import (
	"fmt"
	"math/rand"
	"slices"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/object"
	"github.com/tomz197/asteroids-neo/internal/pool"
)

// Asteroid owns one pool per asteroid size.
type Asteroid struct {
	pools  map[config.AsteroidSize]*pool.Pool[*object.Asteroid]
	sizes  []config.AsteroidSize // Pool iteration order
	subs   event.Group
	logger *zap.Logger
}

// NewAsteroid creates one pre-populated pool per asteroid config.
func NewAsteroid(cfgs []*config.Asteroid, initialSize int, bus *event.Bus, rng *rand.Rand, logger *zap.Logger) *Asteroid {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Asteroid{
		pools:  make(map[config.AsteroidSize]*pool.Pool[*object.Asteroid], len(cfgs)),
		logger: logger.Named("asteroid_factory"),
	}
	if len(cfgs) == 0 {
		f.logger.Error("no asteroid configs")
	}

	for _, cfg := range cfgs {
		p := pool.New("asteroid_"+cfg.Name, func(p *pool.Pool[*object.Asteroid]) *object.Asteroid {
			return object.NewAsteroid(cfg, p, bus, rng, f.logger)
		}, logger)
		p.Initialize(initialSize)
		f.pools[cfg.Size] = p
		f.sizes = append(f.sizes, cfg.Size)
	}
	slices.Sort(f.sizes)

	f.subs.Add(event.Subscribe(bus, func(event.PrepareNewGame) { f.ResetAll() }))
	return f
}

// Create hands out an asteroid of the given size and injects the factory
// into it so it can request its own fragments. Implements
// object.AsteroidMaker.
func (f *Asteroid) Create(size config.AsteroidSize) (*object.Asteroid, error) {
	p, ok := f.pools[size]
	if !ok {
		f.logger.Error("no pool for asteroid size", zap.Stringer("size", size))
		return nil, fmt.Errorf("%w: %s", ErrUnknownSize, size)
	}
	a := p.Acquire()
	a.SetMaker(f)
	return a, nil
}

// ResetAll returns every active asteroid in every pool.
func (f *Asteroid) ResetAll() int {
	total := 0
	for _, size := range f.sizes {
		total += f.pools[size].ReleaseAll()
	}
	f.logger.Debug("asteroids reset", zap.Int("released", total))
	return total
}

// Each calls fn for every active asteroid, largest first. fn may destroy
// or release the instance.
func (f *Asteroid) Each(fn func(a *object.Asteroid)) {
	for _, size := range f.sizes {
		f.pools[size].Each(fn)
	}
}

// ActiveCount returns the number of asteroids in play.
func (f *Asteroid) ActiveCount() int {
	n := 0
	for _, p := range f.pools {
		n += p.ActiveCount()
	}
	return n
}

// Pool returns the pool for a size, or nil.
func (f *Asteroid) Pool(size config.AsteroidSize) *pool.Pool[*object.Asteroid] {
	return f.pools[size]
}

// Close releases the factory's bus subscriptions.
func (f *Asteroid) Close() { f.subs.Close() }

var _ object.AsteroidMaker = (*Asteroid)(nil)
