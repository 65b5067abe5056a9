package loop

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/object"
)

// Phase is where a session is in the Menu → Playing → GameOver → Menu cycle.
type Phase int

const (
	PhaseMenu     Phase = iota // Level select screen
	PhasePlaying               // Round in progress
	PhaseGameOver              // Simulation frozen, waiting for restart
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Input is one tick's worth of player input. Frontends build it at the tick
// boundary; Fire, Level, Start and Restart are edge-triggered and consumed once.
type Input struct {
	PointerX, PointerY float64
	HasPointer         bool // Pointer fields are valid

	Fire    bool
	Level   int // 0 when no level was selected this tick
	Start   bool
	Restart bool
}

// EventType identifies something a frontend may want to react to (sound, logs).
type EventType int

const (
	EventFire EventType = iota
	EventHit
	EventMiss
	EventGameOver
	EventLevelStart
	EventRestart
)

// Event is emitted by Tick and collected with DrainEvents.
type Event struct {
	Type     EventType
	TargetID uint64
	Travel   time.Duration // Projectile travel time (EventHit)
	Level    int           // EventLevelStart
}

// Session is the whole state of one player's game. It is not safe for
// concurrent use; every frontend drives it from a single goroutine.
type Session struct {
	Settings config.Settings

	Phase     Phase
	Level     config.Level
	Score     int // Hits
	Missed    int
	StartedAt time.Time

	missStreak int
	pointerX   float64
	pointerY   float64
	hasPointer bool

	projectiles []*object.Projectile
	targets     *object.TargetPool
	scheduler   *object.SpawnScheduler
	telemetry   *object.Telemetry

	particles []object.Object
	toSpawn   []object.Object // Objects to add after current update cycle

	rng      *rand.Rand
	lastTick time.Time
	lastFire time.Time
	hasFired bool
	screen   object.Screen
	now      time.Time
	delta    time.Duration

	events []Event
}

// NewSession creates a session in the menu. A nil rng is seeded from
// settings.Seed, or from the clock when that is zero.
func NewSession(settings config.Settings, rng *rand.Rand) *Session {
	if rng == nil {
		seed := settings.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	a := settings.Adaptive
	level := settings.Level(1)
	return &Session{
		Settings:  settings,
		Phase:     PhaseMenu,
		Level:     level,
		targets:   object.NewTargetPool(level.Cap),
		scheduler: object.NewSpawnScheduler(settings.EdgeInset),
		telemetry: object.NewTelemetry(a.SampleCapacity, a.SampleWindow, a.DefaultAccuracy),
		rng:       rng,
	}
}

// Spawn queues an object to be added after the current update cycle.
// Implements object.Spawner interface.
func (s *Session) Spawn(obj object.Object) {
	s.toSpawn = append(s.toSpawn, obj)
}

// flushSpawned adds all queued objects and clears the queue.
func (s *Session) flushSpawned() {
	s.particles = append(s.particles, s.toSpawn...)
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

// UpdateContext creates an UpdateContext for the current tick.
func (s *Session) UpdateContext() object.UpdateContext {
	return object.UpdateContext{
		Now:     s.now,
		Delta:   s.delta,
		Screen:  s.screen,
		Rand:    s.rng,
		Spawner: s,
	}
}

// Player returns the player for the current viewport.
func (s *Session) Player() object.Player {
	return object.PlayerAt(s.screen, s.Settings.PlayerRadius)
}

// Pointer returns the last known pointer position.
func (s *Session) Pointer() (x, y float64, ok bool) {
	return s.pointerX, s.pointerY, s.hasPointer
}

// Now is the timestamp of the last tick.
func (s *Session) Now() time.Time { return s.now }

// Screen is the viewport seen by the last tick.
func (s *Session) Screen() object.Screen { return s.screen }

// Projectiles returns the live projectiles. The slice is owned by the session.
func (s *Session) Projectiles() []*object.Projectile { return s.projectiles }

// Targets returns the target pool.
func (s *Session) Targets() *object.TargetPool { return s.targets }

// Telemetry returns the shooting history of the current round.
func (s *Session) Telemetry() *object.Telemetry { return s.telemetry }

// Scheduler returns the spawn scheduler.
func (s *Session) Scheduler() *object.SpawnScheduler { return s.scheduler }

// Particles returns the live hit particles.
func (s *Session) Particles() []object.Object { return s.particles }

// DrainEvents returns the events emitted since the last call.
func (s *Session) DrainEvents() []Event {
	if len(s.events) == 0 {
		return nil
	}
	ev := s.events
	s.events = nil
	return ev
}

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
}
