package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings holds every tunable runtime parameter.
type Settings struct {
	Loop    LoopConfig    `toml:"loop"`
	View    ViewConfig    `toml:"view"`
	Pools   PoolConfig    `toml:"pools"`
	Spawner SpawnerConfig `toml:"spawner"`
	Effects EffectsConfig `toml:"effects"`
	Logging LoggingConfig `toml:"logging"`
}

// LoopConfig sets the simulation and presentation rates.
type LoopConfig struct {
	TickRate  int `toml:"tick_rate"`  // Fixed simulation ticks per second
	FrameRate int `toml:"frame_rate"` // Presentation frames per second
}

// TickTime returns the fixed simulation step.
func (c LoopConfig) TickTime() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// FrameTime returns the target presentation frame time.
func (c LoopConfig) FrameTime() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// ViewConfig is the visible play field in world units. The camera is fixed
// on the origin, so the view is also the wrap area.
type ViewConfig struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	WrapMargin float64 `toml:"wrap_margin"` // Distance past the edge before an object wraps
}

// PoolConfig sets initial pool sizes.
type PoolConfig struct {
	Ammo      int `toml:"ammo"`
	Asteroids int `toml:"asteroids"` // Per size category
	Effects   int `toml:"effects"`
	Sfx       int `toml:"sfx"`
}

// SpawnerConfig parameterises the wave spawner.
type SpawnerConfig struct {
	InitialPerWave     int           `toml:"initial_per_wave"`
	WaveInterval       time.Duration `toml:"wave_interval"`
	DifficultyIncrease int           `toml:"difficulty_increase"`
	DifficultyInterval time.Duration `toml:"difficulty_interval"`
	SpawnRadius        float64       `toml:"spawn_radius"`
	InitialDelay       time.Duration `toml:"initial_delay"`
}

// EffectsConfig sets visual effect timings.
type EffectsConfig struct {
	BlastDuration time.Duration `toml:"blast_duration"`
}

// LoggingConfig selects level, encoding and destination.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // Empty means stderr
}

// ErrInvalidSettings is returned when loaded settings fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

// LoadSettings reads TOML settings from path on top of the defaults.
// An empty path returns the defaults.
func LoadSettings(path string) (*Settings, error) {
	cfg := DefaultSettings()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise stall or divide by zero.
func (s *Settings) Validate() error {
	switch {
	case s.Loop.TickRate <= 0 || s.Loop.FrameRate <= 0:
		return fmt.Errorf("%w: tick_rate and frame_rate must be positive", ErrInvalidSettings)
	case s.View.Width <= 0 || s.View.Height <= 0:
		return fmt.Errorf("%w: view size must be positive", ErrInvalidSettings)
	case s.Spawner.WaveInterval <= 0:
		return fmt.Errorf("%w: spawner.wave_interval must be positive", ErrInvalidSettings)
	case s.Spawner.InitialPerWave < 0 || s.Spawner.DifficultyIncrease < 0:
		return fmt.Errorf("%w: spawner wave sizes must not be negative", ErrInvalidSettings)
	case s.Pools.Ammo < 0 || s.Pools.Asteroids < 0 || s.Pools.Effects < 0 || s.Pools.Sfx < 0:
		return fmt.Errorf("%w: pool sizes must not be negative", ErrInvalidSettings)
	}
	return nil
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return &Settings{
		Loop: LoopConfig{
			TickRate:  50,
			FrameRate: 30,
		},
		View: ViewConfig{
			Width:      32,
			Height:     18,
			WrapMargin: 1,
		},
		Pools: PoolConfig{
			Ammo:      20,
			Asteroids: 15,
			Effects:   10,
			Sfx:       8,
		},
		Spawner: SpawnerConfig{
			InitialPerWave:     2,
			WaveInterval:       5 * time.Second,
			DifficultyIncrease: 2,
			DifficultyInterval: 20 * time.Second,
			SpawnRadius:        15,
			InitialDelay:       2 * time.Second,
		},
		Effects: EffectsConfig{
			BlastDuration: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
