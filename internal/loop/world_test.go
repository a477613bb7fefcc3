package loop

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/draw"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/game"
	"github.com/tomz197/asteroids-neo/internal/input"
	"github.com/tomz197/asteroids-neo/internal/physics"
	"github.com/tomz197/asteroids-neo/internal/prefs"
)

func newTestWorld(t *testing.T) (*World, *prefs.Memory) {
	t.Helper()
	ents, err := config.DefaultEntities()
	if err != nil {
		t.Fatal(err)
	}
	store := prefs.NewMemory()
	w, err := NewWorld(WorldConfig{
		Settings: config.DefaultSettings(),
		Entities: ents,
		Store:    store,
		Seed:     42,
		Logger:   zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Close)
	return w, store
}

func step(t *testing.T, w *World, in input.Input) {
	t.Helper()
	if err := w.Step(in, w.settings.Loop.TickTime()); err != nil {
		t.Fatalf("step: %v", err)
	}
}

func startGame(t *testing.T, w *World) {
	t.Helper()
	step(t, w, input.Input{Enter: true})
	if w.State() != event.StateGameplay {
		t.Fatalf("state = %v, want Gameplay", w.State())
	}
}

func TestNewWorldStartsInMainMenu(t *testing.T) {
	w, _ := newTestWorld(t)
	if w.State() != event.StateMainMenu {
		t.Fatalf("state = %v", w.State())
	}
	if w.SystemsEnabled() {
		t.Fatal("systems enabled on the title screen")
	}
	if !w.UI().PanelVisible(game.PanelMainMenu) {
		t.Fatal("main menu panel hidden")
	}
}

func TestSpawnerStartsWithSession(t *testing.T) {
	w, _ := newTestWorld(t)
	startGame(t, w)
	if !w.SystemsEnabled() || !w.Ship().Alive() {
		t.Fatal("session not running")
	}

	delay := w.settings.Spawner.InitialDelay
	for w.Scheduler().Now() < delay {
		step(t, w, input.Input{})
	}
	if got, want := w.Asteroids().ActiveCount(), w.settings.Spawner.InitialPerWave; got != want {
		t.Fatalf("asteroids after first wave = %d, want %d", got, want)
	}
}

func TestAmmoHitDestroysAndSplits(t *testing.T) {
	w, _ := newTestWorld(t)
	startGame(t, w)

	rock, err := w.Asteroids().Create(config.SizeLarge)
	if err != nil {
		t.Fatal(err)
	}
	rock.Position = physics.Vec2{X: 10, Y: 5}
	rock.Velocity = physics.Vec2{}

	shot, err := w.Ammo().Create()
	if err != nil {
		t.Fatal(err)
	}
	shot.Fire(physics.Vec2{X: 10, Y: 4}, 0)

	step(t, w, input.Input{})

	if rock.Active() || shot.Active() {
		t.Fatal("hit did not return both objects to their pools")
	}
	if got := w.Score().Score(); got != rock.Config.ScoreValue {
		t.Fatalf("score = %d, want %d", got, rock.Config.ScoreValue)
	}
	frags := w.Asteroids().Pool(config.SizeMedium).ActiveCount()
	if frags < rock.Config.MinSplitCount || frags > rock.Config.MaxSplitCount {
		t.Fatalf("fragments = %d, want %d..%d", frags, rock.Config.MinSplitCount, rock.Config.MaxSplitCount)
	}
}

func TestDeathSavesHighScoreThenRetry(t *testing.T) {
	w, store := newTestWorld(t)
	startGame(t, w)
	w.Score().Add(40)

	ship := w.Ship()
	ship.Health = 1
	rock, err := w.Asteroids().Create(config.SizeLarge)
	if err != nil {
		t.Fatal(err)
	}
	rock.Position = ship.Position
	rock.Velocity = physics.Vec2{}

	step(t, w, input.Input{})

	if ship.Alive() {
		t.Fatal("ship survived a fatal hit")
	}
	if w.State() != event.StateGameOver || w.SystemsEnabled() {
		t.Fatalf("state = %v systems = %v, want GameOver with systems off", w.State(), w.SystemsEnabled())
	}
	high, err := prefs.Int(context.Background(), store, prefs.KeyHighScore, 0)
	if err != nil {
		t.Fatal(err)
	}
	if high != 40 {
		t.Fatalf("saved high score = %d, want 40", high)
	}
	if !w.UI().PanelVisible(game.PanelGameOver) {
		t.Fatal("game over panel hidden")
	}

	step(t, w, input.Input{Enter: true})
	if w.State() != event.StateGameplay {
		t.Fatalf("retry state = %v", w.State())
	}
	if w.Score().Score() != 0 || w.Asteroids().ActiveCount() != 0 {
		t.Fatalf("session not reset: score=%d asteroids=%d", w.Score().Score(), w.Asteroids().ActiveCount())
	}
	if !ship.Alive() || ship.Health != ship.Config.MaxHealth {
		t.Fatal("ship not reset")
	}
}

func TestThrustLeavesExhaust(t *testing.T) {
	w, _ := newTestWorld(t)
	startGame(t, w)

	step(t, w, input.Input{Up: true})
	if !w.Ship().Thrusting() {
		t.Fatal("ship not thrusting")
	}
	if w.Effects().ExhaustPool().ActiveCount() == 0 {
		t.Fatal("no exhaust after a thrusting tick")
	}

	// Pausing cuts the engine, so no more exhaust is emitted.
	step(t, w, input.Input{Pause: true, Up: true})
	before := w.Effects().ExhaustPool().ActiveCount()
	step(t, w, input.Input{Up: true})
	if w.Ship().Thrusting() || w.Effects().ExhaustPool().ActiveCount() != before {
		t.Fatal("exhaust emitted while paused")
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	w, _ := newTestWorld(t)
	startGame(t, w)

	step(t, w, input.Input{Pause: true})
	if w.Scheduler().Scale() != 0 || !w.UI().PanelVisible(game.PanelPause) {
		t.Fatal("pause not applied")
	}
	before, now := w.Ship().Position, w.Scheduler().Now()
	for range 10 {
		step(t, w, input.Input{Up: true})
	}
	if w.Ship().Position != before || w.Scheduler().Now() != now {
		t.Fatal("simulation advanced while paused")
	}

	step(t, w, input.Input{Escape: true})
	if w.Scheduler().Scale() != 1 {
		t.Fatal("escape did not resume")
	}
}

func TestMuteToggleFromMenu(t *testing.T) {
	w, store := newTestWorld(t)
	step(t, w, input.Input{Mute: true})
	if !w.Audio().Muted() || !w.UI().Muted() {
		t.Fatal("mute not applied")
	}
	muted, err := prefs.Bool(context.Background(), store, prefs.KeyMuted, false)
	if err != nil || !muted {
		t.Fatalf("stored mute = %v, %v", muted, err)
	}
}

func TestDrawHidesEntitiesOnTitle(t *testing.T) {
	w, _ := newTestWorld(t)
	canvas := draw.NewScaledCanvas(64, 18, 32, 18)

	var buf bytes.Buffer
	if err := w.Draw(canvas); err != nil {
		t.Fatal(err)
	}
	canvas.Render(&buf)
	if buf.Len() != 0 {
		t.Fatal("entities drawn on the title screen")
	}

	startGame(t, w)
	if err := w.Draw(canvas); err != nil {
		t.Fatal(err)
	}
	canvas.Render(&buf)
	if buf.Len() == 0 {
		t.Fatal("ship not drawn during gameplay")
	}
}

func TestScreenPresent(t *testing.T) {
	w, _ := newTestWorld(t)
	var buf bytes.Buffer
	scr := newScreen(&buf, w.settings.View, func() (int, int, error) { return 80, 24, nil })
	if err := scr.present(w); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"┌", "High score: 0", "ENTER to start"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestMergeCommands(t *testing.T) {
	got := mergeCommands(input.Input{Left: true}, input.Input{Enter: true, Right: true})
	if !got.Enter || !got.Left || got.Right {
		t.Fatalf("merged = %+v", got)
	}
}

func TestRunQuits(t *testing.T) {
	ents, err := config.DefaultEntities()
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var buf bytes.Buffer
	err = Run(ctx, strings.NewReader("q"), &buf, Options{
		Settings: config.DefaultSettings(),
		Entities: ents,
		Store:    prefs.NewMemory(),
		Logger:   zaptest.NewLogger(t),
		TermSize: func() (int, int, error) { return 80, 24, nil },
		Seed:     1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Fatal("quit key ignored")
	}
	if buf.Len() == 0 {
		t.Fatal("nothing written")
	}
}
