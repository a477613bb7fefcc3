package audio

import (
	"context"

	"go.uber.org/zap"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/event"
	"github.com/tomz197/asteroids-neo/internal/pool"
	"github.com/tomz197/asteroids-neo/internal/prefs"
	"github.com/tomz197/asteroids-neo/internal/timer"
)

// sfxPlayer is a pooled one-shot voice. It stays active for the length of
// its clip and then returns itself to the pool.
type sfxPlayer struct {
	clip   *config.Clip
	active bool
	done   *timer.Timer
	out    Output
	pool   pool.Releaser[*sfxPlayer]
}

func (p *sfxPlayer) Activate() { p.active = true }

func (p *sfxPlayer) Deactivate() {
	p.active = false
	p.clip = nil
	p.done.Stop()
}

func (p *sfxPlayer) play(clip *config.Clip) {
	p.clip = clip
	p.out.PlaySFX(clip)
	p.done.Start(clip.Length(), func() { p.pool.Release(p) })
}

// Manager picks music per game state and plays effects for gameplay
// events.
type Manager struct {
	bank    config.AudioBank
	out     Output
	store   prefs.Store
	players *pool.Pool[*sfxPlayer]

	music     *config.Clip
	thrusting bool
	muted     bool
	newHigh   bool // Set by NewHighScore, cleared on MainMenu and PrepareNewGame

	bus    *event.Bus
	subs   event.Group
	logger *zap.Logger
}

// NewManager creates the manager, restores the mute preference and
// publishes it with MuteChanged.
func NewManager(bank config.AudioBank, out Output, store prefs.Store, poolSize int, sched *timer.Scheduler, bus *event.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = Nop{}
	}
	m := &Manager{
		bank:   bank,
		out:    out,
		store:  store,
		bus:    bus,
		logger: logger.Named("audio"),
	}
	m.players = pool.New("sfx", func(p *pool.Pool[*sfxPlayer]) *sfxPlayer {
		return &sfxPlayer{done: sched.NewTimer(), out: out, pool: p}
	}, logger)
	m.players.Initialize(poolSize)

	m.subs.Add(event.Subscribe(bus, func(e event.StateChangeRequest) { m.onStateChange(e.Target) }))
	m.subs.Add(event.Subscribe(bus, func(event.AsteroidDestroyed) { m.PlaySFX(m.bank.Explosion) }))
	m.subs.Add(event.Subscribe(bus, func(event.WeaponFired) { m.PlaySFX(m.bank.Shoot) }))
	m.subs.Add(event.Subscribe(bus, func(event.NewHighScore) { m.newHigh = true }))
	m.subs.Add(event.Subscribe(bus, func(event.PrepareNewGame) { m.newHigh = false }))
	m.subs.Add(event.Subscribe(bus, func(e event.ThrustChanged) {
		if e.On {
			m.StartThrust()
		} else {
			m.StopThrust()
		}
	}))
	m.subs.Add(event.Subscribe(bus, func(event.PlayerDied) {
		m.StopThrust()
		m.PlaySFX(m.bank.Explosion)
		m.PlaySFX(m.bank.DeathJingle)
	}))

	muted, err := prefs.Bool(context.Background(), store, prefs.KeyMuted, false)
	if err != nil {
		m.logger.Error("load mute preference", zap.Error(err))
	}
	m.muted = muted
	m.out.SetMuted(muted)
	event.Publish(bus, event.MuteChanged{Muted: muted})
	return m
}

// Close releases subscriptions and silences the output.
func (m *Manager) Close() {
	m.subs.Close()
	m.out.StopLoop()
	m.out.StopMusic()
	m.players.ReleaseAll()
}

// Muted reports the current mute state.
func (m *Manager) Muted() bool { return m.muted }

// Music returns the clip currently set as music.
func (m *Manager) Music() *config.Clip { return m.music }

// ActiveSFX returns the number of effects still playing.
func (m *Manager) ActiveSFX() int { return m.players.ActiveCount() }

func (m *Manager) onStateChange(target event.GameState) {
	switch target {
	case event.StateMainMenu:
		m.newHigh = false
		m.playMusic(m.bank.MainMenuMusic)
	case event.StateGameplay:
		m.playMusic(m.bank.GameplayMusic)
	case event.StateGameOver:
		if m.newHigh {
			m.playMusic(m.bank.VictoryMusic)
		} else {
			m.playMusic(m.bank.GameOverMusic)
		}
	}
}

// playMusic switches tracks unless clip is already playing.
func (m *Manager) playMusic(clip *config.Clip) {
	if clip == m.music {
		return
	}
	m.music = clip
	if clip == nil {
		m.out.StopMusic()
		return
	}
	m.out.PlayMusic(clip)
}

// PlaySFX plays clip on a pooled player. Missing clips are skipped.
func (m *Manager) PlaySFX(clip *config.Clip) {
	if clip == nil {
		return
	}
	m.players.Acquire().play(clip)
}

// StartThrust starts the thrust loop if it is not already running.
func (m *Manager) StartThrust() {
	if m.thrusting || m.bank.Thrust == nil {
		return
	}
	m.thrusting = true
	m.out.StartLoop(m.bank.Thrust)
}

// StopThrust stops the thrust loop.
func (m *Manager) StopThrust() {
	if !m.thrusting {
		return
	}
	m.thrusting = false
	m.out.StopLoop()
}

// ToggleMute flips and persists the mute preference and publishes
// MuteChanged.
func (m *Manager) ToggleMute() bool {
	m.muted = !m.muted
	m.out.SetMuted(m.muted)
	if err := prefs.PutBool(context.Background(), m.store, prefs.KeyMuted, m.muted); err != nil {
		m.logger.Error("save mute preference", zap.Error(err))
	}
	m.logger.Debug("mute toggled", zap.Bool("muted", m.muted))
	event.Publish(m.bus, event.MuteChanged{Muted: m.muted})
	return m.muted
}
