package object

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

// spawnSizes are the sizes a wave picks from.
var spawnSizes = [...]config.AsteroidSize{config.SizeLarge, config.SizeMedium}

// AsteroidSpawner emits asteroids in timed waves that grow over time.
//
// It is a passive listener: PrepareNewGame starts it and SessionEnded stops
// it. Nothing calls Start or Stop directly during play.
type AsteroidSpawner struct {
	cfg   config.SpawnerConfig
	maker AsteroidMaker
	view  physics.Bounds

	perWave    int           // Asteroids in the next wave
	difficulty int           // Number of escalations so far
	elapsed    time.Duration // Wave time accumulated toward the next escalation
	running    bool
	waves      int
	err        error // First spawn failure, reported by Update

	wave   *timer.Timer
	rng    *rand.Rand
	subs   event.Group
	logger *zap.Logger
}

// NewAsteroidSpawner creates a stopped spawner subscribed to the session
// lifecycle events.
func NewAsteroidSpawner(cfg config.SpawnerConfig, maker AsteroidMaker, view physics.Bounds, sched *timer.Scheduler, bus *event.Bus, rng *rand.Rand, logger *zap.Logger) *AsteroidSpawner {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AsteroidSpawner{
		cfg:    cfg,
		maker:  maker,
		view:   view,
		wave:   sched.NewTimer(),
		rng:    rng,
		logger: logger.Named("spawner"),
	}
	s.subs.Add(event.Subscribe(bus, func(event.PrepareNewGame) { s.Start() }))
	s.subs.Add(event.Subscribe(bus, func(event.SessionEnded) { s.Stop() }))
	return s
}

// Close releases the spawner's bus subscriptions and stops it.
func (s *AsteroidSpawner) Close() {
	s.Stop()
	s.subs.Close()
}

// Start resets the wave size and arms the first wave after the initial
// delay.
func (s *AsteroidSpawner) Start() {
	s.perWave = s.cfg.InitialPerWave
	s.difficulty = 0
	s.elapsed = 0
	s.waves = 0
	s.running = true
	s.wave.Start(s.cfg.InitialDelay, s.spawnWave)
	s.logger.Debug("spawner started", zap.Duration("delay", s.cfg.InitialDelay))
}

// Stop cancels the pending wave.
func (s *AsteroidSpawner) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.wave.Stop()
	s.logger.Debug("spawner stopped", zap.Int("waves", s.waves))
}

// Running reports whether waves are being produced.
func (s *AsteroidSpawner) Running() bool { return s.running }

// PerWave returns the size of the next wave.
func (s *AsteroidSpawner) PerWave() int { return s.perWave }

// Difficulty returns how many times the wave size has grown.
func (s *AsteroidSpawner) Difficulty() int { return s.difficulty }

// Waves returns the number of waves spawned this session.
func (s *AsteroidSpawner) Waves() int { return s.waves }

// spawnWave emits one wave, accounts its interval toward the next
// escalation and re-arms itself.
func (s *AsteroidSpawner) spawnWave() {
	if !s.running {
		return
	}
	for range s.perWave {
		if err := s.spawnOne(); err != nil {
			s.fail(err)
			return
		}
	}
	s.waves++
	s.logger.Info("wave spawned",
		zap.Int("wave", s.waves),
		zap.Int("asteroids", s.perWave),
		zap.Int("difficulty", s.difficulty),
	)

	s.elapsed += s.cfg.WaveInterval
	if s.cfg.DifficultyInterval > 0 && s.elapsed >= s.cfg.DifficultyInterval {
		s.elapsed = 0
		s.perWave += s.cfg.DifficultyIncrease
		s.difficulty++
		s.logger.Info("difficulty increased", zap.Int("per_wave", s.perWave), zap.Int("level", s.difficulty))
	}
	s.wave.Start(s.cfg.WaveInterval, s.spawnWave)
}

// spawnOne places an asteroid on the spawn circle. Points that land inside
// the view are pushed out to twice the radius so nothing appears on screen.
func (s *AsteroidSpawner) spawnOne() error {
	size := spawnSizes[s.rng.Intn(len(spawnSizes))]
	a, err := s.maker.Create(size)
	if err != nil {
		return err
	}
	pos := physics.UnitFromAngle(s.rng.Float64() * 2 * math.Pi).Scale(s.cfg.SpawnRadius)
	if s.view.Contains(pos) {
		pos = pos.Scale(2)
	}
	a.Position = pos
	return nil
}

func (s *AsteroidSpawner) fail(err error) {
	s.logger.Error("spawn failed", zap.Error(err))
	if s.err == nil {
		s.err = err
	}
	s.Stop()
}

// Update reports the first spawn failure. The spawner itself is driven by
// its timer.
func (s *AsteroidSpawner) Update(_ UpdateContext) (bool, error) {
	return false, s.err
}

// Draw is a no-op; spawner is not visible.
func (s *AsteroidSpawner) Draw(_ DrawContext) error {
	return nil
}
