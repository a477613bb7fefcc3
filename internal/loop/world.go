// Package loop wires every game component into a World and drives it from
// a fixed-rate simulation loop with a terminal presentation pass.
package loop

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/audio"
	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/draw"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/factory"
	"github.com/tomz197/asteroids-neo/internal/game"
	"github.com/tomz197/asteroids-neo/internal/input"
	"github.com/tomz197/asteroids-neo/internal/object"
	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/prefs"
	"github.com/tomz197/asteroids-neo/internal/score"
	"github.com/tomz197/asteroids-neo/internal/timer"
	"github.com/tomz197/asteroids-neo/internal/ui"
)

// WorldConfig holds what a World is built from.
type WorldConfig struct {
	Settings *config.Settings
	Entities *config.Entities
	Store    prefs.Store  // High score and mute preference
	Audio    audio.Output // nil plays nothing
	Seed     int64        // Zero seeds from the clock
	Logger   *zap.Logger
}

// World owns one single-player game: the bus, the simulation clock, every
// manager, factory and entity, and the state machine that switches them.
//
// A World is driven from one goroutine.
type World struct {
	settings *config.Settings
	bounds   physics.Bounds
	systems  bool

	bus   *event.Bus
	sched *timer.Scheduler
	rng   *rand.Rand

	ui      *ui.Manager
	audio   *audio.Manager
	score   *score.Manager
	ammo    *factory.Ammo
	rocks   *factory.Asteroid
	effects *factory.Effects
	ship    *object.Ship
	spawner *object.AsteroidSpawner
	machine *game.Machine

	collide *collider
	logger  *zap.Logger
}

var _ game.Systems = (*World)(nil)

// NewWorld builds every component and enters the main menu.
//
// Construction order matters: components subscribe to the bus as they are
// built, and the audio manager publishes the stored mute preference, so the
// UI has to exist before it.
func NewWorld(cfg WorldConfig) (*World, error) {
	if cfg.Settings == nil || cfg.Entities == nil || cfg.Store == nil {
		return nil, errors.New("world: settings, entities and store are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := cfg.Audio
	if out == nil {
		out = audio.Nop{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := cfg.Settings
	ents := cfg.Entities
	w := &World{
		settings: s,
		bounds:   physics.NewBounds(s.View.Width, s.View.Height),
		bus:      event.NewBus(),
		sched:    timer.NewScheduler(),
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger.Named("world"),
	}

	w.ui = ui.NewManager(nil, w.bus, logger)
	w.audio = audio.NewManager(ents.Audio, out, cfg.Store, s.Pools.Sfx, w.sched, w.bus, logger)
	w.ui.SetMuter(w.audio)
	w.score = score.NewManager(cfg.Store, w.bus, logger)

	w.ammo = factory.NewAmmo(&ents.Ammo, s.Pools.Ammo, w.sched, w.bus, logger)
	w.rocks = factory.NewAsteroid(ents.Asteroids, s.Pools.Asteroids, w.bus, w.rng, logger)
	w.effects = factory.NewEffects(s.Pools.Effects, s.Effects.BlastDuration, w.sched, w.bus, w.rng, logger)
	w.ship = object.NewShip(&ents.Ship, w.ammo, w.sched, w.bus, logger)
	w.spawner = object.NewAsteroidSpawner(s.Spawner, w.rocks, w.bounds, w.sched, w.bus, w.rng, logger)
	w.collide = newCollider(w.bounds, s.View.WrapMargin, ents)

	w.machine = game.New(game.Deps{
		Panels:  w.ui,
		Systems: w,
		Clock:   w.sched,
		Scores:  w.score,
	}, w.bus, logger)

	if err := w.machine.Start(); err != nil {
		w.Close()
		return nil, fmt.Errorf("start game: %w", err)
	}
	w.logger.Info("world ready", zap.Int64("seed", seed))
	return w, nil
}

// Close releases every subscription and stops the audio output.
func (w *World) Close() {
	w.machine.Close()
	w.spawner.Close()
	w.ship.Close()
	w.effects.Close()
	w.rocks.Close()
	w.ammo.Close()
	w.score.Close()
	w.audio.Close()
	w.ui.Close()
}

// SetSystemsEnabled implements game.Systems.
func (w *World) SetSystemsEnabled(enabled bool) {
	w.systems = enabled
}

// SystemsEnabled reports whether gameplay systems run.
func (w *World) SystemsEnabled() bool { return w.systems }

// Step advances the world by one fixed tick of dt wall time.
func (w *World) Step(in input.Input, dt time.Duration) error {
	w.machine.Tick(in)
	w.ui.HandleInput(in, w.machine.Current())
	if err := w.machine.Err(); err != nil {
		return err
	}

	scaled := w.sched.Tick(dt)
	ctx := object.UpdateContext{
		Delta:  scaled,
		Input:  in,
		Bounds: w.bounds,
		Margin: w.settings.View.WrapMargin,
	}

	if w.systems {
		if err := w.updateSystems(ctx); err != nil {
			return err
		}
	}

	var err error
	keep := func(_ bool, uerr error) {
		if uerr != nil && err == nil {
			err = uerr
		}
	}
	w.effects.Each(func(b *object.Blast) { keep(b.Update(ctx)) })
	w.effects.EachExhaust(func(e *object.Exhaust) { keep(e.Update(ctx)) })
	if err != nil {
		return err
	}
	return w.machine.Err()
}

func (w *World) updateSystems(ctx object.UpdateContext) error {
	if _, err := w.spawner.Update(ctx); err != nil {
		return err
	}
	if _, err := w.ship.Update(ctx); err != nil {
		return err
	}
	w.effects.Trail(w.ship.Tail(), w.ship.Rotation)

	var err error
	keep := func(_ bool, uerr error) {
		if uerr != nil && err == nil {
			err = uerr
		}
	}
	w.ammo.Each(func(a *object.Ammo) { keep(a.Update(ctx)) })
	w.rocks.Each(func(a *object.Asteroid) { keep(a.Update(ctx)) })
	if err != nil {
		return err
	}

	if ctx.Delta <= 0 {
		return nil
	}
	return w.collide.resolve(w)
}

// Draw draws the play field onto canvas. The title screen shows no
// entities; GameOver keeps the frozen field from the last session.
func (w *World) Draw(canvas *draw.Canvas) error {
	canvas.Clear()
	if w.machine.Current() == event.StateMainMenu {
		return nil
	}

	ctx := object.DrawContext{Canvas: canvas, View: object.Viewport{Bounds: w.bounds}}
	var err error
	keep := func(derr error) {
		if derr != nil && err == nil {
			err = derr
		}
	}
	w.rocks.Each(func(a *object.Asteroid) { keep(a.Draw(ctx)) })
	w.ammo.Each(func(a *object.Ammo) { keep(a.Draw(ctx)) })
	w.effects.EachExhaust(func(e *object.Exhaust) { keep(e.Draw(ctx)) })
	keep(w.ship.Draw(ctx))
	w.effects.Each(func(b *object.Blast) { keep(b.Draw(ctx)) })
	return err
}

// DrawUI writes the visible panels through cw over an area of cols x rows
// cells.
func (w *World) DrawUI(cw *draw.ChunkWriter, cols, rows int) {
	w.ui.Draw(cw, cols, rows)
}

// State returns the current game state.
func (w *World) State() event.GameState { return w.machine.Current() }

// Bus returns the world's event bus.
func (w *World) Bus() *event.Bus { return w.bus }

// Scheduler returns the simulation clock.
func (w *World) Scheduler() *timer.Scheduler { return w.sched }

// Ship returns the player ship.
func (w *World) Ship() *object.Ship { return w.ship }

// Asteroids returns the asteroid factory.
func (w *World) Asteroids() *factory.Asteroid { return w.rocks }

// Ammo returns the ammo factory.
func (w *World) Ammo() *factory.Ammo { return w.ammo }

// Effects returns the effects factory.
func (w *World) Effects() *factory.Effects { return w.effects }

// Score returns the score manager.
func (w *World) Score() *score.Manager { return w.score }

// UI returns the UI manager.
func (w *World) UI() *ui.Manager { return w.ui }

// Audio returns the audio manager.
func (w *World) Audio() *audio.Manager { return w.audio }
