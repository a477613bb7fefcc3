package factory

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/object"
	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

func entities(t *testing.T) *config.Entities {
	t.Helper()
	ents, err := config.DefaultEntities()
	if err != nil {
		t.Fatal(err)
	}
	return ents
}

func TestAmmoFactoryCreate(t *testing.T) {
	ents := entities(t)
	bus := event.NewBus()
	f := NewAmmo(&ents.Ammo, 3, timer.NewScheduler(), bus, zaptest.NewLogger(t))
	defer f.Close()

	if f.Pool().IdleCount() != 3 {
		t.Fatalf("idle = %d, want 3", f.Pool().IdleCount())
	}
	a, err := f.Create()
	if err != nil || a == nil || !a.Active() {
		t.Fatalf("Create = %v, %v", a, err)
	}
	if a.Config != &ents.Ammo {
		t.Fatal("ammo not bound to its config")
	}
}

func TestAmmoFactoryNotConfigured(t *testing.T) {
	f := NewAmmo(nil, 3, timer.NewScheduler(), event.NewBus(), zap.NewNop())
	a, err := f.Create()
	if !errors.Is(err, ErrNotConfigured) || a != nil {
		t.Fatalf("Create = %v, %v; want nil, ErrNotConfigured", a, err)
	}
	if f.ResetAll() != 0 {
		t.Fatal("ResetAll on unconfigured factory released something")
	}
}

func TestAsteroidFactoryInjectsItself(t *testing.T) {
	ents := entities(t)
	bus := event.NewBus()
	f := NewAsteroid(ents.Asteroids, 2, bus, rand.New(rand.NewSource(1)), zaptest.NewLogger(t))
	defer f.Close()

	for _, size := range []config.AsteroidSize{config.SizeLarge, config.SizeMedium, config.SizeSmall} {
		a, err := f.Create(size)
		if err != nil {
			t.Fatalf("Create(%s): %v", size, err)
		}
		if a.Config.Size != size {
			t.Fatalf("Create(%s) returned a %s asteroid", size, a.Config.Size)
		}
	}

	// Fragments come from the same factory, so they show up in its pools.
	large := f.Pool(config.SizeLarge).Active()[0]
	if _, err := large.Destroy(); err != nil {
		t.Fatal(err)
	}
	if n := f.Pool(config.SizeMedium).ActiveCount(); n < 3 || n > 5 {
		t.Fatalf("medium active = %d, want 1 + 2..4 fragments", n)
	}
}

func TestAsteroidFactoryUnknownSize(t *testing.T) {
	ents := entities(t)
	f := NewAsteroid(ents.Asteroids[:1], 0, event.NewBus(), rand.New(rand.NewSource(1)), zap.NewNop())
	_, err := f.Create(config.SizeSmall)
	if !errors.Is(err, ErrUnknownSize) {
		t.Fatalf("err = %v, want ErrUnknownSize", err)
	}
}

func TestFactoriesResetOnPrepareNewGame(t *testing.T) {
	ents := entities(t)
	bus := event.NewBus()
	sched := timer.NewScheduler()
	rng := rand.New(rand.NewSource(5))
	ammo := NewAmmo(&ents.Ammo, 0, sched, bus, zap.NewNop())
	rocks := NewAsteroid(ents.Asteroids, 0, bus, rng, zap.NewNop())
	fx := NewEffects(0, time.Second, sched, bus, rng, zap.NewNop())

	for range 4 {
		a, _ := ammo.Create()
		a.Fire(physics.Vec2{}, 0)
		rocks.Create(config.SizeLarge)
		rocks.Create(config.SizeSmall)
		fx.Spawn(physics.Vec2{}, 1)
	}

	event.Publish(bus, event.PrepareNewGame{})

	if ammo.Pool().ActiveCount() != 0 || rocks.ActiveCount() != 0 || fx.Pool().ActiveCount() != 0 {
		t.Fatalf("active after reset: ammo=%d asteroids=%d effects=%d",
			ammo.Pool().ActiveCount(), rocks.ActiveCount(), fx.Pool().ActiveCount())
	}
	if sched.Pending() != 0 {
		t.Fatalf("%d timers left armed after reset", sched.Pending())
	}

	// Closed factories stop listening.
	ammo.Close()
	a, _ := ammo.Create()
	event.Publish(bus, event.PrepareNewGame{})
	if !a.Active() {
		t.Fatal("closed ammo factory still reset on PrepareNewGame")
	}
}

func TestEffectsOnAsteroidDestroyed(t *testing.T) {
	ents := entities(t)
	bus := event.NewBus()
	sched := timer.NewScheduler()
	fx := NewEffects(1, 500*time.Millisecond, sched, bus, rand.New(rand.NewSource(2)), zap.NewNop())
	defer fx.Close()

	pos := physics.Vec2{X: 4, Y: 4}
	event.Publish(bus, event.AsteroidDestroyed{Config: ents.Asteroid(config.SizeLarge), Position: pos})

	var got []*object.Blast
	fx.Each(func(b *object.Blast) { got = append(got, b) })
	if len(got) != 1 || got[0].Position != pos {
		t.Fatalf("blasts = %v", got)
	}

	sched.Advance(500 * time.Millisecond)
	if fx.Pool().ActiveCount() != 0 {
		t.Fatal("blast not returned after its duration")
	}
}

func TestEffectsTrailFollowsThrust(t *testing.T) {
	bus := event.NewBus()
	sched := timer.NewScheduler()
	fx := NewEffects(2, 500*time.Millisecond, sched, bus, rand.New(rand.NewSource(3)), zap.NewNop())
	defer fx.Close()

	tail := physics.Vec2{X: 0, Y: -1}
	if fx.Trail(tail, 0) != 0 {
		t.Fatal("exhaust spawned with the engine off")
	}

	event.Publish(bus, event.ThrustChanged{On: true})
	n := fx.Trail(tail, 0)
	if n < 1 || n > 2 || fx.ExhaustPool().ActiveCount() != n {
		t.Fatalf("spawned %d, active %d", n, fx.ExhaustPool().ActiveCount())
	}
	fx.EachExhaust(func(e *object.Exhaust) {
		if e.Position != tail || e.Velocity.Y >= 0 {
			t.Errorf("exhaust at %v moving %v, want from the tail moving backwards", e.Position, e.Velocity)
		}
	})

	// Particles live at most 250ms.
	sched.Advance(250 * time.Millisecond)
	if fx.ExhaustPool().ActiveCount() != 0 {
		t.Fatal("exhaust not returned after its lifetime")
	}

	event.Publish(bus, event.ThrustChanged{On: false})
	if fx.Trail(tail, 0) != 0 {
		t.Fatal("exhaust spawned after the engine stopped")
	}
}
