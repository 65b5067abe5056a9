package config

import (
	"errors"
	"fmt"
	"time"
)

// Distances and speeds are in logical pixels; speeds are per reference frame
// (1/60 s) and get scaled by the real frame delta.
const (
	ReferenceFrame = time.Second / 60
	MaxTickDelta   = 100 * time.Millisecond
)

// Round
const (
	InitialDelay = 1500 * time.Millisecond
	RespawnDelay = 300 * time.Millisecond
	MaxMissed    = 10
)

// Player and shots
const (
	PlayerRadius = 15.0
	ShotCooldown = 200 * time.Millisecond
	ShotSpeed    = 12.0
	ShotFrames   = 60.0
	ShotMargin   = 40.0 // how far past the viewport a bounds-expiring shot may travel
)

// Targets
const (
	TargetRadius     = 25.0
	TargetSpeed      = 0.9
	TargetLifetime   = 1800 * time.Millisecond
	TurnChance       = 0.01
	TurnInterval     = 400 * time.Millisecond
	TopUpDelay       = 300 * time.Millisecond
	EdgeInset        = 50.0
	HitMargin        = 8.0
	SingleTargetCap  = 1
	MultiTargetCap   = 3
	MultiTargetSpeed = 1.4
)

// Adaptive lifetime
const (
	AdaptiveBase         = 1000 * time.Millisecond
	AdaptiveExtraRange   = 700 * time.Millisecond
	AdaptiveMinLifetime  = 1500 * time.Millisecond
	AdaptiveMaxLifetime  = 9000 * time.Millisecond
	TravelSampleCapacity = 200
	TravelSampleWindow   = 30
	DefaultAccuracy      = 0.45
)

// Inactivity and shutdown (SSH sessions)
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
	ShutdownDisplay          = 3 * time.Second
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Terminal cells map onto this many logical pixels so the same tuning
// works in a terminal and in a window.
const (
	CellWidth  = 8
	CellHeight = 16
)

// LifetimeMode selects how a target's lifetime is computed at spawn.
type LifetimeMode int

const (
	LifetimeFixed LifetimeMode = iota
	LifetimeAdaptive
)

// TurnMode selects the random direction change policy of a level.
type TurnMode int

const (
	TurnProbabilistic TurnMode = iota
	TurnPeriodic
)

// ExpiryMode selects when a projectile is removed.
type ExpiryMode int

const (
	ExpiryFrames ExpiryMode = iota // fixed frame budget
	ExpiryBounds                   // leaves the viewport by ShotMargin
)

// SpawnMode selects when the scheduler re-checks after a successful spawn.
type SpawnMode int

const (
	SpawnAfterLifetime SpawnMode = iota // wait a full target lifetime
	SpawnTopUp                          // re-check after TopUpDelay
)

// Level describes one selectable difficulty.
type Level struct {
	Number        int
	Cap           int
	TargetRadius  float64
	TargetSpeed   float64
	Lifetime      LifetimeMode
	FixedLifetime time.Duration
	Turns         TurnMode
	TurnChance    float64
	TurnInterval  time.Duration
	Expiry        ExpiryMode
	Spawn         SpawnMode
	TopUpDelay    time.Duration
}

// Adaptive tunes the rubber-banding lifetime formula.
type Adaptive struct {
	Base            time.Duration
	ExtraRange      time.Duration
	Min             time.Duration
	Max             time.Duration
	SampleCapacity  int
	SampleWindow    int
	DefaultAccuracy float64
}

// Settings holds every tunable a session needs.
type Settings struct {
	Levels       []Level // index 0 is level 1
	MaxMissed    int
	ShotCooldown time.Duration
	ShotSpeed    float64
	ShotFrames   float64
	ShotMargin   float64
	HitMargin    float64
	PlayerRadius float64
	EdgeInset    float64
	InitialDelay time.Duration
	RespawnDelay time.Duration
	MaxDelta     time.Duration
	Adaptive     Adaptive
	Seed         int64 // 0 means seed from the clock
	Sound        bool
}

// ErrInvalidSettings is wrapped by every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Default returns the stock tuning.
func Default() Settings {
	return Settings{
		Levels: []Level{
			{
				Number:        1,
				Cap:           SingleTargetCap,
				TargetRadius:  TargetRadius,
				TargetSpeed:   TargetSpeed,
				Lifetime:      LifetimeFixed,
				FixedLifetime: TargetLifetime,
				Turns:         TurnProbabilistic,
				TurnChance:    TurnChance,
				TurnInterval:  TurnInterval,
				Expiry:        ExpiryFrames,
				Spawn:         SpawnAfterLifetime,
				TopUpDelay:    TopUpDelay,
			},
			{
				Number:        2,
				Cap:           MultiTargetCap,
				TargetRadius:  TargetRadius,
				TargetSpeed:   MultiTargetSpeed,
				Lifetime:      LifetimeAdaptive,
				FixedLifetime: TargetLifetime,
				Turns:         TurnPeriodic,
				TurnChance:    TurnChance,
				TurnInterval:  TurnInterval,
				Expiry:        ExpiryBounds,
				Spawn:         SpawnTopUp,
				TopUpDelay:    TopUpDelay,
			},
		},
		MaxMissed:    MaxMissed,
		ShotCooldown: ShotCooldown,
		ShotSpeed:    ShotSpeed,
		ShotFrames:   ShotFrames,
		ShotMargin:   ShotMargin,
		HitMargin:    HitMargin,
		PlayerRadius: PlayerRadius,
		EdgeInset:    EdgeInset,
		InitialDelay: InitialDelay,
		RespawnDelay: RespawnDelay,
		MaxDelta:     MaxTickDelta,
		Adaptive: Adaptive{
			Base:            AdaptiveBase,
			ExtraRange:      AdaptiveExtraRange,
			Min:             AdaptiveMinLifetime,
			Max:             AdaptiveMaxLifetime,
			SampleCapacity:  TravelSampleCapacity,
			SampleWindow:    TravelSampleWindow,
			DefaultAccuracy: DefaultAccuracy,
		},
	}
}

// Load returns Default with REFLEX_* environment overrides applied and validated.
func Load() (Settings, error) {
	s := Default()
	s.MaxMissed = GetEnvInt("REFLEX_MAX_MISSED", s.MaxMissed)
	s.ShotCooldown = GetEnvDuration("REFLEX_SHOT_COOLDOWN", s.ShotCooldown)
	s.ShotSpeed = GetEnvFloat("REFLEX_SHOT_SPEED", s.ShotSpeed)
	s.InitialDelay = GetEnvDuration("REFLEX_INITIAL_DELAY", s.InitialDelay)
	s.RespawnDelay = GetEnvDuration("REFLEX_RESPAWN_DELAY", s.RespawnDelay)
	s.Adaptive.Min = GetEnvDuration("REFLEX_MIN_LIFETIME", s.Adaptive.Min)
	s.Adaptive.Max = GetEnvDuration("REFLEX_MAX_LIFETIME", s.Adaptive.Max)
	s.Seed = GetEnvInt64("REFLEX_SEED", s.Seed)
	s.Sound = GetEnvBool("REFLEX_SOUND", s.Sound)

	lifetime := GetEnvDuration("REFLEX_TARGET_LIFETIME", TargetLifetime)
	for i := range s.Levels {
		s.Levels[i].FixedLifetime = lifetime
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Level returns the level with the given number, falling back to level 1.
func (s Settings) Level(n int) Level {
	for _, l := range s.Levels {
		if l.Number == n {
			return l
		}
	}
	return s.Levels[0]
}

// HasLevel reports whether n names a configured level.
func (s Settings) HasLevel(n int) bool {
	for _, l := range s.Levels {
		if l.Number == n {
			return true
		}
	}
	return false
}

// Validate checks the settings for values the simulation cannot run with.
func (s Settings) Validate() error {
	if len(s.Levels) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidSettings)
	}
	for _, l := range s.Levels {
		if l.Cap < 1 {
			return fmt.Errorf("%w: level %d cap %d", ErrInvalidSettings, l.Number, l.Cap)
		}
		if l.TargetRadius <= 0 {
			return fmt.Errorf("%w: level %d target radius %.1f", ErrInvalidSettings, l.Number, l.TargetRadius)
		}
		if l.Lifetime == LifetimeFixed && l.FixedLifetime <= 0 {
			return fmt.Errorf("%w: level %d lifetime %s", ErrInvalidSettings, l.Number, l.FixedLifetime)
		}
		if l.Lifetime == LifetimeFixed && (l.FixedLifetime < s.Adaptive.Min || l.FixedLifetime > s.Adaptive.Max) {
			return fmt.Errorf("%w: level %d lifetime %s outside [%s, %s]",
				ErrInvalidSettings, l.Number, l.FixedLifetime, s.Adaptive.Min, s.Adaptive.Max)
		}
		if l.Turns == TurnPeriodic && l.TurnInterval <= 0 {
			return fmt.Errorf("%w: level %d turn interval %s", ErrInvalidSettings, l.Number, l.TurnInterval)
		}
		if l.TurnChance < 0 || l.TurnChance > 1 {
			return fmt.Errorf("%w: level %d turn chance %.3f", ErrInvalidSettings, l.Number, l.TurnChance)
		}
	}
	if s.MaxMissed < 1 {
		return fmt.Errorf("%w: max missed %d", ErrInvalidSettings, s.MaxMissed)
	}
	if s.ShotCooldown < 0 {
		return fmt.Errorf("%w: shot cooldown %s", ErrInvalidSettings, s.ShotCooldown)
	}
	if s.ShotSpeed <= 0 {
		return fmt.Errorf("%w: shot speed %.1f", ErrInvalidSettings, s.ShotSpeed)
	}
	if s.MaxDelta <= 0 {
		return fmt.Errorf("%w: max delta %s", ErrInvalidSettings, s.MaxDelta)
	}
	a := s.Adaptive
	if a.Min <= 0 || a.Max < a.Min {
		return fmt.Errorf("%w: lifetime window [%s, %s]", ErrInvalidSettings, a.Min, a.Max)
	}
	if a.SampleCapacity < 1 || a.SampleWindow < 1 || a.SampleWindow > a.SampleCapacity {
		return fmt.Errorf("%w: sample window %d of %d", ErrInvalidSettings, a.SampleWindow, a.SampleCapacity)
	}
	return nil
}
