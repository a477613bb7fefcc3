package audio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"go.uber.org/zap/zaptest"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/prefs"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

// recorder is an Output that records what it was asked to play.
type recorder struct {
	music   []*config.Clip
	sfx     []*config.Clip
	loop    *config.Clip
	loops   int
	muted   bool
	stopped int
}

func (r *recorder) PlayMusic(c *config.Clip) { r.music = append(r.music, c) }
func (r *recorder) StopMusic() { r.stopped++ }
func (r *recorder) PlaySFX(c *config.Clip) { r.sfx = append(r.sfx, c) }
func (r *recorder) StartLoop(c *config.Clip) { r.loop = c; r.loops++ }
func (r *recorder) StopLoop() { r.loop = nil }
func (r *recorder) SetMuted(m bool) { r.muted = m }
func (r *recorder) Close() error { return nil }

func testBank() config.AudioBank {
	clip := func(n float64) *config.Clip {
		return &config.Clip{Notes: []float64{n}, NoteLength: 0.1, Wave: "sine", Volume: 0.5}
	}
	return config.AudioBank{
		MainMenuMusic: clip(1),
		GameplayMusic: clip(2),
		GameOverMusic: clip(3),
		VictoryMusic:  clip(4),
		Shoot:         clip(5),
		Thrust:        clip(6),
		Explosion:     clip(7),
		DeathJingle:   clip(8),
	}
}

type fixture struct {
	m     *Manager
	out   *recorder
	bus   *event.Bus
	sched *timer.Scheduler
	bank  config.AudioBank
}

func newFixture(t *testing.T, store prefs.Store) *fixture {
	t.Helper()
	f := &fixture{
		out:   &recorder{},
		bus:   event.NewBus(),
		sched: timer.NewScheduler(),
		bank:  testBank(),
	}
	f.m = NewManager(f.bank, f.out, store, 2, f.sched, f.bus, zaptest.NewLogger(t))
	t.Cleanup(f.m.Close)
	return f
}

func TestStateMusic(t *testing.T) {
	f := newFixture(t, prefs.NewMemory())
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateMainMenu})
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateMainMenu})
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameplay})
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameOver})

	want := []*config.Clip{f.bank.MainMenuMusic, f.bank.GameplayMusic, f.bank.GameOverMusic}
	if len(f.out.music) != len(want) {
		t.Fatalf("played %d tracks, want %d", len(f.out.music), len(want))
	}
	for i := range want {
		if f.out.music[i] != want[i] {
			t.Fatalf("track %d = %v, want %v", i, f.out.music[i].Notes, want[i].Notes)
		}
	}
}

func TestVictoryMusicAfterNewHighScore(t *testing.T) {
	f := newFixture(t, prefs.NewMemory())
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameplay})
	event.Publish(f.bus, event.NewHighScore{Score: 100})
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameOver})
	if f.m.Music() != f.bank.VictoryMusic {
		t.Fatal("victory music not played after a new high score")
	}

	// Back to the menu clears the flag.
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateMainMenu})
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameplay})
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameOver})
	if f.m.Music() != f.bank.GameOverMusic {
		t.Fatal("victory flag survived a return to the main menu")
	}
}

func TestRetryClearsVictoryFlag(t *testing.T) {
	f := newFixture(t, prefs.NewMemory())
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameplay})
	event.Publish(f.bus, event.PrepareNewGame{})
	event.Publish(f.bus, event.NewHighScore{Score: 100})
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameOver})
	if f.m.Music() != f.bank.VictoryMusic {
		t.Fatal("victory music not played after a new high score")
	}

	// Retry straight from GameOver, then die without a record.
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameplay})
	event.Publish(f.bus, event.PrepareNewGame{})
	event.Publish(f.bus, event.StateChangeRequest{Target: event.StateGameOver})
	if f.m.Music() != f.bank.GameOverMusic {
		t.Fatal("victory music replayed for a session without a record")
	}
}

func TestSFXPlayersReturnAfterClip(t *testing.T) {
	f := newFixture(t, prefs.NewMemory())
	for range 3 {
		event.Publish(f.bus, event.WeaponFired{})
	}
	if len(f.out.sfx) != 3 || f.m.ActiveSFX() != 3 {
		t.Fatalf("sfx = %d active = %d", len(f.out.sfx), f.m.ActiveSFX())
	}
	f.sched.Advance(50 * time.Millisecond)
	if f.m.ActiveSFX() != 3 {
		t.Fatal("players returned before the clip ended")
	}
	f.sched.Advance(50 * time.Millisecond)
	if f.m.ActiveSFX() != 0 {
		t.Fatalf("active = %d after clip length", f.m.ActiveSFX())
	}
}

func TestPlayerDiedStopsThrust(t *testing.T) {
	f := newFixture(t, prefs.NewMemory())
	event.Publish(f.bus, event.ThrustChanged{On: true})
	event.Publish(f.bus, event.ThrustChanged{On: true})
	if f.out.loop != f.bank.Thrust || f.out.loops != 1 {
		t.Fatalf("thrust loop started %d times", f.out.loops)
	}

	event.Publish(f.bus, event.PlayerDied{})
	if f.out.loop != nil {
		t.Fatal("thrust loop still running after death")
	}
	if n := len(f.out.sfx); n != 2 || f.out.sfx[0] != f.bank.Explosion || f.out.sfx[1] != f.bank.DeathJingle {
		t.Fatalf("death sfx = %d clips", n)
	}
}

func TestMutePersistsAcrossRestart(t *testing.T) {
	store, err := prefs.OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	f := newFixture(t, store)
	if f.m.Muted() {
		t.Fatal("muted by default")
	}
	var got []bool
	event.Subscribe(f.bus, func(e event.MuteChanged) { got = append(got, e.Muted) })
	if !f.m.ToggleMute() || !f.out.muted {
		t.Fatal("ToggleMute did not mute")
	}
	if len(got) != 1 || !got[0] {
		t.Fatalf("MuteChanged = %v", got)
	}
	f.m.Close()

	// A new manager on the same store starts muted and says so.
	bus := event.NewBus()
	var startup []bool
	event.Subscribe(bus, func(e event.MuteChanged) { startup = append(startup, e.Muted) })
	out := &recorder{}
	m := NewManager(testBank(), out, store, 0, timer.NewScheduler(), bus, zaptest.NewLogger(t))
	defer m.Close()
	if !m.Muted() || !out.muted {
		t.Fatal("mute preference not restored")
	}
	if len(startup) != 1 || !startup[0] {
		t.Fatalf("startup MuteChanged = %v", startup)
	}
}

func TestClipStreamer(t *testing.T) {
	rate := beep.SampleRate(20)
	clip := &config.Clip{Notes: []float64{100, 0, 200}, NoteLength: 0.5, Wave: "square"}

	s := NewClipStreamer(clip, rate, false)
	if s.Len() != 30 {
		t.Fatalf("Len = %d, want 30", s.Len())
	}
	buf := make([][2]float64, 64)
	n, ok := s.Stream(buf)
	if n != 30 || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	for i := 10; i < 20; i++ {
		if buf[i][0] != 0 {
			t.Fatalf("rest sample %d = %v", i, buf[i][0])
		}
	}
	if n, ok := s.Stream(buf); n != 0 || ok {
		t.Fatalf("drained stream returned %d, %v", n, ok)
	}

	looped := NewClipStreamer(clip, rate, true)
	if n, ok := looped.Stream(buf); n != len(buf) || !ok {
		t.Fatalf("looping stream = %d, %v", n, ok)
	}
}
