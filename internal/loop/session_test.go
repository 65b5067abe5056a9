package loop

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/object"
)

var testScreen = object.Screen{Width: 800, Height: 600}

// newPlaying returns a session that started level n at t0.
func newPlaying(t *testing.T, n int) (*Session, time.Time) {
	t.Helper()
	s := NewSession(config.Default(), rand.New(rand.NewSource(1)))
	t0 := time.Unix(1000, 0)
	s.Tick(t0, testScreen, Input{Level: n})
	if s.Phase != PhasePlaying {
		t.Fatalf("expected playing after level select, got %s", s.Phase)
	}
	if s.Level.Number != n {
		t.Fatalf("expected level %d, got %d", n, s.Level.Number)
	}
	return s, t0
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestMenuIgnoresUnknownLevel(t *testing.T) {
	s := NewSession(config.Default(), rand.New(rand.NewSource(1)))
	s.Tick(time.Unix(1, 0), testScreen, Input{Level: 9})
	if s.Phase != PhaseMenu {
		t.Fatalf("expected menu, got %s", s.Phase)
	}
	s.Tick(time.Unix(2, 0), testScreen, Input{Start: true})
	if s.Phase != PhasePlaying || s.Level.Number != 1 {
		t.Fatalf("expected level 1 to start, got %s level %d", s.Phase, s.Level.Number)
	}
}

func TestMenuDoesNotSimulate(t *testing.T) {
	s := NewSession(config.Default(), rand.New(rand.NewSource(1)))
	t0 := time.Unix(1, 0)
	for i := 0; i < 100; i++ {
		s.Tick(t0.Add(time.Duration(i)*100*time.Millisecond), testScreen, Input{Fire: true})
	}
	if len(s.Projectiles()) != 0 || s.Targets().Len() != 0 {
		t.Fatal("menu should not fire or spawn")
	}
}

func TestInitialDelayBeforeFirstSpawn(t *testing.T) {
	s, t0 := newPlaying(t, 1)

	s.Tick(t0.Add(1499*time.Millisecond), testScreen, Input{})
	if s.Targets().Len() != 0 {
		t.Fatal("target spawned during the initial delay")
	}
	s.Tick(t0.Add(1500*time.Millisecond), testScreen, Input{})
	if s.Targets().Len() != 1 {
		t.Fatal("expected the first target after the initial delay")
	}
}

func TestFireCooldown(t *testing.T) {
	s, t0 := newPlaying(t, 1)
	aim := Input{PointerX: 700, PointerY: 300, HasPointer: true, Fire: true}

	s.Tick(t0.Add(50*time.Millisecond), testScreen, aim)
	s.Tick(t0.Add(150*time.Millisecond), testScreen, aim)
	s.Tick(t0.Add(250*time.Millisecond), testScreen, aim)
	if got := len(s.Projectiles()); got != 1 {
		t.Fatalf("expected 1 projectile within the cooldown, got %d", got)
	}
	if s.Telemetry().Fired != 1 {
		t.Fatalf("expected 1 shot counted, got %d", s.Telemetry().Fired)
	}

	s.Tick(t0.Add(251*time.Millisecond), testScreen, aim)
	if got := len(s.Projectiles()); got != 2 {
		t.Fatalf("expected a second projectile after the cooldown, got %d", got)
	}
}

func TestFireNeedsViewport(t *testing.T) {
	s, t0 := newPlaying(t, 1)
	s.Tick(t0.Add(time.Second), object.Screen{}, Input{Fire: true})
	if len(s.Projectiles()) != 0 {
		t.Fatal("fired without a viewport")
	}
}

func TestTargetsKeepPositionWhileViewportIsZero(t *testing.T) {
	s, t0 := newPlaying(t, 1)
	spawnAt := t0.Add(1500 * time.Millisecond)
	s.Tick(spawnAt, testScreen, Input{})
	if s.Targets().Len() != 1 {
		t.Fatal("expected a target")
	}
	tg := s.Targets().Targets()[0]
	x, y := tg.X, tg.Y

	s.Tick(spawnAt.Add(50*time.Millisecond), object.Screen{}, Input{})
	if tg.X != x || tg.Y != y {
		t.Fatalf("target moved from (%f, %f) to (%f, %f) without a viewport", x, y, tg.X, tg.Y)
	}
}

func TestMissRespawnsAfterDelay(t *testing.T) {
	s, t0 := newPlaying(t, 1)

	spawnAt := t0.Add(1500 * time.Millisecond)
	s.Tick(spawnAt, testScreen, Input{})
	if s.Targets().Len() != 1 {
		t.Fatal("expected a target")
	}
	if got := s.Targets().Targets()[0].Lifetime; got != 1800*time.Millisecond {
		t.Fatalf("expected lifetime 1.8s, got %s", got)
	}

	expireAt := spawnAt.Add(1800 * time.Millisecond)
	s.Tick(expireAt.Add(-time.Millisecond), testScreen, Input{})
	if s.Missed != 0 {
		t.Fatal("target expired early")
	}
	s.Tick(expireAt, testScreen, Input{})
	if s.Missed != 1 || s.Targets().Len() != 0 {
		t.Fatalf("expected one miss and no targets, got missed=%d targets=%d", s.Missed, s.Targets().Len())
	}
	if want := expireAt.Add(300 * time.Millisecond); !s.Scheduler().Next().Equal(want) {
		t.Fatalf("expected next spawn at %s, got %s", want, s.Scheduler().Next())
	}

	s.Tick(expireAt.Add(299*time.Millisecond), testScreen, Input{})
	if s.Targets().Len() != 0 {
		t.Fatal("respawned before the delay")
	}
	s.Tick(expireAt.Add(300*time.Millisecond), testScreen, Input{})
	if s.Targets().Len() != 1 {
		t.Fatal("expected a respawn 300ms after the miss")
	}
}

func TestHitScoresAndRespawnsImmediately(t *testing.T) {
	s, t0 := newPlaying(t, 1)
	spawnAt := t0.Add(1500 * time.Millisecond)
	s.Tick(spawnAt, testScreen, Input{})
	s.DrainEvents()

	// Park the target on the player so the next shot cannot miss.
	tg := s.Targets().Targets()[0]
	tg.X, tg.Y = testScreen.Center()

	hitAt := spawnAt.Add(config.ReferenceFrame)
	s.Tick(hitAt, testScreen, Input{PointerX: 700, PointerY: 300, HasPointer: true, Fire: true})

	if s.Score != 1 || s.Telemetry().Hits != 1 {
		t.Fatalf("expected one hit, got score=%d hits=%d", s.Score, s.Telemetry().Hits)
	}
	if s.Targets().Len() != 0 || len(s.Projectiles()) != 0 {
		t.Fatal("hit target and projectile should both be removed")
	}
	if !s.Scheduler().Next().Equal(hitAt) {
		t.Fatalf("expected the next spawn to be allowed at %s, got %s", hitAt, s.Scheduler().Next())
	}
	events := s.DrainEvents()
	if countEvents(events, EventHit) != 1 || countEvents(events, EventFire) != 1 {
		t.Fatalf("expected fire and hit events, got %+v", events)
	}
	if len(s.Particles()) == 0 {
		t.Fatal("expected a particle burst on hit")
	}

	s.Tick(hitAt.Add(config.ReferenceFrame), testScreen, Input{})
	if s.Targets().Len() != 1 {
		t.Fatal("expected an immediate respawn after a hit")
	}
}

func TestGameOverAtMaxMissed(t *testing.T) {
	s, t0 := newPlaying(t, 1)

	now := t0
	end := t0.Add(2 * time.Minute)
	for s.Phase == PhasePlaying && now.Before(end) {
		now = now.Add(50 * time.Millisecond)
		s.Tick(now, testScreen, Input{})
		if s.Targets().Len() > s.Level.Cap {
			t.Fatalf("target cap exceeded: %d", s.Targets().Len())
		}
	}
	if s.Phase != PhaseGameOver {
		t.Fatalf("expected game over, got %s", s.Phase)
	}
	if s.Missed != config.MaxMissed {
		t.Fatalf("expected %d missed, got %d", config.MaxMissed, s.Missed)
	}
	if countEvents(s.DrainEvents(), EventGameOver) != 1 {
		t.Fatal("expected one game over event")
	}

	for i := 0; i < 200; i++ {
		now = now.Add(50 * time.Millisecond)
		s.Tick(now, testScreen, Input{Fire: true, Level: 2})
	}
	if s.Targets().Len() != 0 || s.Missed != config.MaxMissed || len(s.Projectiles()) != 0 {
		t.Fatalf("simulation should be frozen after game over: targets=%d missed=%d shots=%d",
			s.Targets().Len(), s.Missed, len(s.Projectiles()))
	}
	if s.Phase != PhaseGameOver {
		t.Fatal("level select should not leave game over")
	}
}

func TestRestartClearsEverything(t *testing.T) {
	s, t0 := newPlaying(t, 2)

	now := t0
	sawTarget := false
	for i := 0; i < 100; i++ {
		now = now.Add(50 * time.Millisecond)
		s.Tick(now, testScreen, Input{PointerX: 0, PointerY: 0, HasPointer: true, Fire: true})
		sawTarget = sawTarget || s.Targets().Len() > 0
	}
	if s.Telemetry().Fired == 0 || !sawTarget {
		t.Fatal("expected some play before restart")
	}

	s.Tick(now.Add(50*time.Millisecond), testScreen, Input{Restart: true})
	if s.Phase != PhaseMenu {
		t.Fatalf("expected menu after restart, got %s", s.Phase)
	}
	if s.Score != 0 || s.Missed != 0 || s.Targets().Len() != 0 || len(s.Projectiles()) != 0 {
		t.Fatalf("expected a clean session, got score=%d missed=%d targets=%d shots=%d",
			s.Score, s.Missed, s.Targets().Len(), len(s.Projectiles()))
	}
	if s.Telemetry().Fired != 0 || s.Telemetry().Samples() != 0 || len(s.Particles()) != 0 {
		t.Fatal("expected telemetry and particles to be cleared")
	}
	if s.Level.Number != 2 {
		t.Fatalf("expected the level to be kept, got %d", s.Level.Number)
	}
}

func TestMultiTargetCapAndLifetimes(t *testing.T) {
	s, t0 := newPlaying(t, 2)
	a := s.Settings.Adaptive

	now := t0
	seen := 0
	ids := map[uint64]bool{}
	for i := 0; i < 1200 && s.Phase == PhasePlaying; i++ {
		now = now.Add(config.ReferenceFrame)
		s.Tick(now, testScreen, Input{})
		if n := s.Targets().Len(); n > 3 {
			t.Fatalf("tick %d: %d targets above cap 3", i, n)
		}
		for _, tg := range s.Targets().Targets() {
			if ids[tg.ID] {
				continue
			}
			ids[tg.ID] = true
			seen++
			if tg.Lifetime < a.Min || tg.Lifetime > a.Max {
				t.Fatalf("lifetime %s outside [%s, %s]", tg.Lifetime, a.Min, a.Max)
			}
		}
	}
	if seen < 3 {
		t.Fatalf("expected the pool to fill up, saw %d targets", seen)
	}
}

func TestMissedNeverDecreases(t *testing.T) {
	s, t0 := newPlaying(t, 2)
	rng := rand.New(rand.NewSource(5))

	now := t0
	last := 0
	for i := 0; i < 3000 && s.Phase == PhasePlaying; i++ {
		now = now.Add(time.Duration(5+rng.Intn(120)) * time.Millisecond)
		s.Tick(now, testScreen, Input{
			PointerX:   rng.Float64() * testScreen.Width,
			PointerY:   rng.Float64() * testScreen.Height,
			HasPointer: true,
			Fire:       rng.Intn(4) == 0,
		})
		if s.Missed < last {
			t.Fatalf("missed went from %d to %d", last, s.Missed)
		}
		last = s.Missed
		for _, tg := range s.Targets().Targets() {
			if tg.Phase != object.TargetActive {
				t.Fatal("inactive target left in the pool after a tick")
			}
		}
		for _, p := range s.Projectiles() {
			if p.IsDestroyed() {
				t.Fatal("destroyed projectile left after a tick")
			}
		}
	}
}

func TestDeltaIsClamped(t *testing.T) {
	s, t0 := newPlaying(t, 1)
	s.Tick(t0.Add(10*time.Second), testScreen, Input{})
	if s.delta != config.MaxTickDelta {
		t.Fatalf("expected delta clamped to %s, got %s", config.MaxTickDelta, s.delta)
	}
}
