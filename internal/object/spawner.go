package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/reflex/internal/config"
)

// Spawn edges
const (
	edgeLeft = iota
	edgeRight
	edgeTop
	edgeCount
)

// LifetimeFunc picks the lifetime of a target about to spawn at (x, y).
type LifetimeFunc func(x, y float64) time.Duration

// SpawnScheduler gates target spawning on a next-allowed timestamp, independent
// of any single target's lifetime, and hands out target ids.
type SpawnScheduler struct {
	next   time.Time
	lastID uint64
	inset  float64
}

// NewSpawnScheduler creates a scheduler spawning inset pixels inside the edges.
func NewSpawnScheduler(inset float64) *SpawnScheduler {
	return &SpawnScheduler{inset: inset}
}

// Next returns the earliest time the next spawn may happen.
func (s *SpawnScheduler) Next() time.Time {
	return s.next
}

// Hold forbids spawning before until.
func (s *SpawnScheduler) Hold(until time.Time) {
	s.next = until
}

// Reset forgets the schedule and the id sequence.
func (s *SpawnScheduler) Reset() {
	s.next = time.Time{}
	s.lastID = 0
}

// TrySpawn creates a target when fewer than level.Cap are active, the
// next-allowed time has come and the viewport is laid out. Otherwise it
// returns nil without touching any state.
func (s *SpawnScheduler) TrySpawn(ctx UpdateContext, active int, level config.Level, lifetime LifetimeFunc) *Target {
	if active >= level.Cap || ctx.Now.Before(s.next) || !ctx.Screen.Valid() || ctx.Rand == nil {
		return nil
	}

	x, y := s.edgePoint(ctx.Screen, ctx.Rand)
	angle := ctx.Rand.Float64() * 2 * math.Pi
	life := lifetime(x, y)

	s.lastID++
	t := NewTarget(s.lastID, x, y, level.TargetRadius, level.TargetSpeed, angle, life, PolicyFor(level), ctx.Now)
	t.X, _ = reflectAxis(t.X, 0, t.Radius, ctx.Screen.Width)
	t.Y, _ = reflectAxis(t.Y, 0, t.Radius, ctx.Screen.Height)

	switch level.Spawn {
	case config.SpawnTopUp:
		s.next = ctx.Now.Add(level.TopUpDelay)
	default:
		s.next = ctx.Now.Add(life)
	}
	return t
}

// edgePoint picks a point on the left, right or top edge, inset from it.
func (s *SpawnScheduler) edgePoint(screen Screen, rng *rand.Rand) (x, y float64) {
	insetX := math.Min(s.inset, screen.Width/2)
	insetY := math.Min(s.inset, screen.Height/2)

	switch rng.Intn(edgeCount) {
	case edgeLeft:
		return insetX, rng.Float64() * screen.Height
	case edgeRight:
		return screen.Width - insetX, rng.Float64() * screen.Height
	default:
		return rng.Float64() * screen.Width, insetY
	}
}
