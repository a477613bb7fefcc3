// Package config loads process environment, runtime settings and the
// immutable entity records the game is built from.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds settings read from environment variables.
type Env struct {
	SettingsPath string `env:"ASTEROIDS_CONFIG"`                            // TOML runtime settings (optional)
	EntitiesPath string `env:"ASTEROIDS_DATA"`                              // YAML entity records (optional, embedded default)
	PrefsPath    string `env:"ASTEROIDS_PREFS"    envDefault:"asteroids.db"` // SQLite preference store
	LogFile      string `env:"ASTEROIDS_LOG"      envDefault:"asteroids.log"`
	Audio        bool   `env:"ASTEROIDS_AUDIO"    envDefault:"true"`
	Profile      string `env:"ASTEROIDS_PROFILE"` // "cpu" or "mem"

	SSHHost    string `env:"SSH_HOST"     envDefault:"::"`
	SSHPort    string `env:"SSH_PORT"     envDefault:"2222"`
	SSHHostKey string `env:"SSH_HOST_KEY" envDefault:"/app/keys/host_key"`
}

// LoadEnv parses the process environment into Env.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
