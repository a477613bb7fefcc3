package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed entities.yaml
var defaultEntities []byte

// Errors returned by entity validation.
var (
	ErrInvalidEntity = errors.New("invalid entity config")
	ErrSplitCycle    = errors.New("asteroid split graph has a cycle")
)

// AsteroidSize is the size category an asteroid pool is keyed by.
type AsteroidSize uint8

const (
	SizeLarge AsteroidSize = iota + 1
	SizeMedium
	SizeSmall
)

// String returns the lower-case size name used in YAML.
func (s AsteroidSize) String() string {
	switch s {
	case SizeLarge:
		return "large"
	case SizeMedium:
		return "medium"
	case SizeSmall:
		return "small"
	default:
		return fmt.Sprintf("size(%d)", uint8(s))
	}
}

// ParseAsteroidSize parses a size name.
func ParseAsteroidSize(name string) (AsteroidSize, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "large":
		return SizeLarge, nil
	case "medium":
		return SizeMedium, nil
	case "small":
		return SizeSmall, nil
	}
	return 0, fmt.Errorf("%w: unknown asteroid size %q", ErrInvalidEntity, name)
}

// UnmarshalYAML decodes a size name.
func (s *AsteroidSize) UnmarshalYAML(n *yaml.Node) error {
	var name string
	if err := n.Decode(&name); err != nil {
		return err
	}
	size, err := ParseAsteroidSize(name)
	if err != nil {
		return err
	}
	*s = size
	return nil
}

// Ammo describes a projectile type.
type Ammo struct {
	Name        string  `yaml:"name"`
	Sprite      string  `yaml:"sprite"`
	Speed       float64 `yaml:"speed"`
	Damage      int     `yaml:"damage"`
	HeavyAttack bool    `yaml:"heavy_attack"` // Reserved, not used by gameplay
	Lifetime    float64 `yaml:"lifetime"`     // Seconds before returning to the pool
	Radius      float64 `yaml:"radius"`
}

// LifetimeDuration returns Lifetime as a duration.
func (a *Ammo) LifetimeDuration() time.Duration { return seconds(a.Lifetime) }

// Asteroid describes one asteroid size. SplitInto names the config its
// fragments use; Split is resolved by Validate.
type Asteroid struct {
	Name           string       `yaml:"name"`
	Size           AsteroidSize `yaml:"size"`
	Sprite         string       `yaml:"sprite"`
	Radius         float64      `yaml:"radius"`
	MinSpeed       float64      `yaml:"min_speed"`
	MaxSpeed       float64      `yaml:"max_speed"`
	ScoreValue     int          `yaml:"score_value"`
	DamageToPlayer float64      `yaml:"damage_to_player"`
	CanSplit       bool         `yaml:"can_split"`
	SplitInto      string       `yaml:"split_into"`
	MinSplitCount  int          `yaml:"min_split_count"`
	MaxSplitCount  int          `yaml:"max_split_count"`

	Split *Asteroid `yaml:"-"`
}

// Ship describes the player ship.
type Ship struct {
	Sprite                string  `yaml:"sprite"`
	Radius                float64 `yaml:"radius"`
	MaxHealth             float64 `yaml:"max_health"`
	Acceleration          float64 `yaml:"acceleration"`
	MaxSpeed              float64 `yaml:"max_speed"`
	RotationSpeed         float64 `yaml:"rotation_speed"` // Degrees per second
	LinearDrag            float64 `yaml:"linear_drag"`
	BrakingDrag           float64 `yaml:"braking_drag"`
	FireRate              float64 `yaml:"fire_rate"`                // Minimum seconds between shots
	HeavyAttackChargeTime float64 `yaml:"heavy_attack_charge_time"` // Reserved, not used by gameplay
	Invincibility         float64 `yaml:"invincibility"`            // Seconds of invincibility after damage
}

// FireInterval returns FireRate as a duration.
func (s *Ship) FireInterval() time.Duration { return seconds(s.FireRate) }

// InvincibilityDuration returns Invincibility as a duration.
func (s *Ship) InvincibilityDuration() time.Duration { return seconds(s.Invincibility) }

// Clip is a procedurally synthesised sound: a sequence of notes played
// back to back with a given waveform.
type Clip struct {
	Notes      []float64 `yaml:"notes"`       // Frequencies in Hz, 0 is a rest
	NoteLength float64   `yaml:"note_length"` // Seconds per note
	Wave       string    `yaml:"wave"`        // sine, square, triangle or noise
	Volume     float64   `yaml:"volume"`      // 0..1
}

// Length returns the total clip duration.
func (c *Clip) Length() time.Duration {
	if c == nil {
		return 0
	}
	return seconds(c.NoteLength * float64(len(c.Notes)))
}

// AudioBank names every clip slot the audio manager uses.
type AudioBank struct {
	MainMenuMusic *Clip `yaml:"main_menu_music"`
	GameplayMusic *Clip `yaml:"gameplay_music"`
	GameOverMusic *Clip `yaml:"game_over_music"`
	VictoryMusic  *Clip `yaml:"victory_music"`
	Shoot         *Clip `yaml:"shoot"`
	Thrust        *Clip `yaml:"thrust"`
	Explosion     *Clip `yaml:"explosion"`
	DeathJingle   *Clip `yaml:"death_jingle"`
}

// PowerUpType enumerates power-up kinds.
type PowerUpType string

const (
	PowerUpExtraLife PowerUpType = "extra_life"
	PowerUpShield    PowerUpType = "shield"
)

// PowerUp is declared for content authors but not wired into gameplay.
type PowerUp struct {
	Type        PowerUpType `yaml:"type"`
	Duration    float64     `yaml:"duration"`
	PickupSound *Clip       `yaml:"pickup_sound"`
}

// Entities is the full set of immutable entity records.
type Entities struct {
	Ammo      Ammo        `yaml:"ammo"`
	Ship      Ship        `yaml:"ship"`
	Asteroids []*Asteroid `yaml:"asteroids"`
	Audio     AudioBank   `yaml:"audio"`
	PowerUps  []PowerUp   `yaml:"power_ups"`

	bySize map[AsteroidSize]*Asteroid
}

// LoadEntities reads entity records from a YAML file. An empty path loads
// the embedded defaults.
func LoadEntities(path string) (*Entities, error) {
	if path == "" {
		return ParseEntities(defaultEntities)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entities %s: %w", path, err)
	}
	ents, err := ParseEntities(data)
	if err != nil {
		return nil, fmt.Errorf("entities %s: %w", path, err)
	}
	return ents, nil
}

// DefaultEntities returns the embedded entity records.
func DefaultEntities() (*Entities, error) {
	return ParseEntities(defaultEntities)
}

// ParseEntities decodes and validates YAML entity records.
func ParseEntities(data []byte) (*Entities, error) {
	var e Entities
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse entities: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Asteroid returns the config for a size, or nil.
func (e *Entities) Asteroid(size AsteroidSize) *Asteroid {
	return e.bySize[size]
}

// Validate checks ranges, resolves split references and rejects cyclic
// split graphs so destruction can never spawn forever.
func (e *Entities) Validate() error {
	if e.Ammo.Speed <= 0 || e.Ammo.Lifetime <= 0 {
		return fmt.Errorf("%w: ammo speed and lifetime must be positive", ErrInvalidEntity)
	}
	if e.Ship.MaxHealth <= 0 {
		return fmt.Errorf("%w: ship max_health must be positive", ErrInvalidEntity)
	}
	if len(e.Asteroids) == 0 {
		return fmt.Errorf("%w: no asteroid configs", ErrInvalidEntity)
	}

	byName := make(map[string]*Asteroid, len(e.Asteroids))
	e.bySize = make(map[AsteroidSize]*Asteroid, len(e.Asteroids))
	for _, a := range e.Asteroids {
		if a == nil || a.Name == "" {
			return fmt.Errorf("%w: asteroid without a name", ErrInvalidEntity)
		}
		if _, dup := byName[a.Name]; dup {
			return fmt.Errorf("%w: duplicate asteroid %q", ErrInvalidEntity, a.Name)
		}
		if _, dup := e.bySize[a.Size]; dup {
			return fmt.Errorf("%w: more than one asteroid of size %s", ErrInvalidEntity, a.Size)
		}
		if a.MinSpeed < 0 || a.MaxSpeed < a.MinSpeed {
			return fmt.Errorf("%w: asteroid %q speed range [%g, %g]", ErrInvalidEntity, a.Name, a.MinSpeed, a.MaxSpeed)
		}
		if a.CanSplit && (a.MinSplitCount < 0 || a.MaxSplitCount < a.MinSplitCount) {
			return fmt.Errorf("%w: asteroid %q split range [%d, %d]", ErrInvalidEntity, a.Name, a.MinSplitCount, a.MaxSplitCount)
		}
		byName[a.Name] = a
		e.bySize[a.Size] = a
	}

	for _, a := range e.Asteroids {
		a.Split = nil
		if a.SplitInto == "" {
			continue
		}
		child, ok := byName[a.SplitInto]
		if !ok {
			return fmt.Errorf("%w: asteroid %q splits into unknown %q", ErrInvalidEntity, a.Name, a.SplitInto)
		}
		a.Split = child
	}

	for _, a := range e.Asteroids {
		if err := checkSplitChain(a); err != nil {
			return err
		}
	}
	return nil
}

// checkSplitChain walks the split chain from a and fails if any config is
// visited twice.
func checkSplitChain(a *Asteroid) error {
	seen := make(map[*Asteroid]struct{})
	for cur := a; cur != nil; cur = cur.Split {
		if _, ok := seen[cur]; ok {
			return fmt.Errorf("%w: %q revisits %q", ErrSplitCycle, a.Name, cur.Name)
		}
		seen[cur] = struct{}{}
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
