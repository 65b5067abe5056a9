package loop

import (
	"time"

	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/object"
	"github.com/tomz197/reflex/internal/physics"
)

// Hit particle burst
const (
	burstCount    = 14
	burstSpeed    = 3.0
	burstLifetime = 0.6 // Seconds
)

// Tick advances the session to now. It never blocks and never fails: misses
// are counters and degenerate geometry falls back locally.
func (s *Session) Tick(now time.Time, screen object.Screen, in Input) {
	s.advanceClock(now)
	s.screen = screen
	if in.HasPointer {
		s.pointerX, s.pointerY, s.hasPointer = in.PointerX, in.PointerY, true
	}

	switch s.Phase {
	case PhaseMenu:
		s.updateMenu(in)
	case PhasePlaying:
		s.updatePlaying(in)
	case PhaseGameOver:
		s.updateGameOver(in)
	}

	// Particles are presentation only and keep fading in every phase.
	s.particles = object.UpdateAll(s.particles, s.UpdateContext())
	s.flushSpawned()
}

// advanceClock computes the tick delta, clamped so a stalled frontend does
// not teleport everything on the next frame. The first tick has no delta.
func (s *Session) advanceClock(now time.Time) {
	switch {
	case s.lastTick.IsZero():
		s.delta = 0
	default:
		s.delta = now.Sub(s.lastTick)
	}
	if s.delta < 0 {
		s.delta = 0
	}
	if s.delta > s.Settings.MaxDelta {
		s.delta = s.Settings.MaxDelta
	}
	s.lastTick = now
	s.now = now
}

// updateMenu waits for a level selection or a start command.
func (s *Session) updateMenu(in Input) {
	switch {
	case in.Level > 0 && s.Settings.HasLevel(in.Level):
		s.Start(s.now, in.Level)
	case in.Start:
		s.Start(s.now, s.Level.Number)
	}
}

// updateGameOver keeps the last frame frozen until the player restarts.
func (s *Session) updateGameOver(in Input) {
	if in.Restart || in.Start {
		s.Restart()
	}
}

// updatePlaying runs one simulation step: spawn, projectiles, targets,
// collisions, then the terminal check.
func (s *Session) updatePlaying(in Input) {
	if in.Restart {
		s.Restart()
		return
	}
	if in.Fire {
		s.fire()
	}

	ctx := s.UpdateContext()
	s.spawnTargets(ctx)
	s.updateProjectiles(ctx)
	s.updateTargets(ctx)
	s.resolveCollisions()

	if s.Missed >= s.Settings.MaxMissed {
		s.Phase = PhaseGameOver
		s.emit(Event{Type: EventGameOver})
	}
}

// Start begins a round on level n. The first target appears after the
// initial grace delay.
func (s *Session) Start(now time.Time, n int) {
	s.reset(s.Settings.Level(n))
	s.Phase = PhasePlaying
	s.StartedAt = now
	s.scheduler.Hold(now.Add(s.Settings.InitialDelay))
	s.emit(Event{Type: EventLevelStart, Level: s.Level.Number})
}

// Restart clears every transient collection and counter and returns to the menu.
func (s *Session) Restart() {
	s.reset(s.Level)
	s.Phase = PhaseMenu
	s.emit(Event{Type: EventRestart})
}

func (s *Session) reset(level config.Level) {
	s.Level = level
	s.Score = 0
	s.Missed = 0
	s.missStreak = 0
	s.StartedAt = time.Time{}
	s.hasFired = false
	s.lastFire = time.Time{}

	clear(s.projectiles)
	s.projectiles = s.projectiles[:0]
	s.targets.Reset(level.Cap)
	s.scheduler.Reset()
	s.telemetry.Reset()

	for _, p := range s.particles {
		object.ReleaseObject(p)
	}
	clear(s.particles)
	s.particles = s.particles[:0]
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

// fire launches a projectile towards the pointer unless the cooldown since
// the previous successful fire has not strictly passed.
func (s *Session) fire() {
	if !s.screen.Valid() {
		return
	}
	if s.hasFired && s.now.Sub(s.lastFire) <= s.Settings.ShotCooldown {
		return
	}

	player := s.Player()
	aimX, aimY := player.X, player.Y
	if s.hasPointer {
		aimX, aimY = s.pointerX, s.pointerY
	}

	s.projectiles = append(s.projectiles, object.Fire(player, aimX, aimY, s.Settings, s.Level.Expiry, s.now))
	s.telemetry.RecordShot()
	s.lastFire = s.now
	s.hasFired = true
	s.emit(Event{Type: EventFire})
}

// spawnTargets asks the scheduler for a new target.
func (s *Session) spawnTargets(ctx object.UpdateContext) {
	t := s.scheduler.TrySpawn(ctx, s.targets.Len(), s.Level, s.lifetimeFor)
	if t != nil {
		s.targets.Add(t)
	}
}

// lifetimeFor is the lifetime of a target spawning at (x, y).
func (s *Session) lifetimeFor(x, y float64) time.Duration {
	if s.Level.Lifetime != config.LifetimeAdaptive {
		return object.FixedLifetime(s.Level.FixedLifetime)
	}
	player := s.Player()
	return object.AdaptiveLifetime(s.Settings.Adaptive, object.LifetimeInputs{
		Distance:  physics.Distance(x, y, player.X, player.Y),
		PxToMs:    object.PxToMs(s.Settings.ShotSpeed),
		Telemetry: s.telemetry,
		Missed:    s.missStreak,
	}, s.rng)
}

// updateProjectiles moves every projectile and drops the expired ones.
func (s *Session) updateProjectiles(ctx object.UpdateContext) {
	kept := s.projectiles[:0]
	for _, p := range s.projectiles {
		if !p.Update(ctx) {
			kept = append(kept, p)
		}
	}
	clear(s.projectiles[len(kept):])
	s.projectiles = kept
}

// updateTargets moves the targets and counts the ones that ran out as misses.
func (s *Session) updateTargets(ctx object.UpdateContext) {
	for _, t := range s.targets.Update(ctx) {
		s.Missed++
		s.missStreak++
		s.emit(Event{Type: EventMiss, TargetID: t.ID})
		if s.Level.Spawn == config.SpawnAfterLifetime {
			s.scheduler.Hold(s.now.Add(s.Settings.RespawnDelay))
		}
	}
}

// resolveCollisions applies every hit found this tick.
func (s *Session) resolveCollisions() {
	hits := ResolveCollisions(s.targets.Targets(), s.projectiles, s.Settings.HitMargin)
	if len(hits) == 0 {
		return
	}

	for _, h := range hits {
		travel := s.now.Sub(h.Projectile.FiredAt)
		s.Score++
		s.missStreak = 0
		s.telemetry.RecordHit(travel)
		object.SpawnBurst(h.Target.X, h.Target.Y, burstCount, burstSpeed, burstLifetime, s, s.rng)
		s.emit(Event{Type: EventHit, TargetID: h.Target.ID, Travel: travel})
	}
	if s.Level.Spawn == config.SpawnAfterLifetime {
		s.scheduler.Hold(s.now)
	}

	s.targets.RemoveHit()
	kept := s.projectiles[:0]
	for _, p := range s.projectiles {
		if !p.IsDestroyed() {
			kept = append(kept, p)
		}
	}
	clear(s.projectiles[len(kept):])
	s.projectiles = kept
}
