package object

import (
	"fmt"
	"math"
	"time"

	"github.com/tomz197/reflex/internal/physics"
)

// TargetPhase is where a target is in its life.
type TargetPhase int

const (
	TargetActive  TargetPhase = iota
	TargetExpired             // lifetime ran out; counts as a miss
	TargetHit                 // intercepted by a projectile
)

func (p TargetPhase) String() string {
	switch p {
	case TargetActive:
		return "active"
	case TargetExpired:
		return "expired"
	case TargetHit:
		return "hit"
	default:
		return fmt.Sprintf("TargetPhase(%d)", int(p))
	}
}

// Target is the circle the player has to intercept before its lifetime ends.
type Target struct {
	ID        uint64
	X, Y      float64 // Center
	VX, VY    float64 // Velocity per reference frame
	Radius    float64
	Speed     float64 // Velocity magnitude, kept across direction changes
	SpawnedAt time.Time
	Lifetime  time.Duration // Fixed at spawn
	LastTurn  time.Time
	Phase     TargetPhase
	Turns     DirectionPolicy
}

// NewTarget creates an active target heading along angle.
func NewTarget(id uint64, x, y, radius, speed, angle float64, lifetime time.Duration, turns DirectionPolicy, now time.Time) *Target {
	t := &Target{
		ID:        id,
		X:         x,
		Y:         y,
		Radius:    radius,
		Speed:     speed,
		SpawnedAt: now,
		Lifetime:  lifetime,
		Turns:     turns,
	}
	t.Turn(angle, now)
	return t
}

// Turn points the target along angle at its speed.
func (t *Target) Turn(angle float64, now time.Time) {
	t.VX, t.VY = physics.Velocity(angle, t.Speed)
	t.LastTurn = now
}

// Elapsed is the time since spawn.
func (t *Target) Elapsed(now time.Time) time.Duration {
	return now.Sub(t.SpawnedAt)
}

// Expired reports whether the lifetime has run out at now.
func (t *Target) Expired(now time.Time) bool {
	return t.Elapsed(now) >= t.Lifetime
}

// Remaining is the lifetime left at now, never negative.
func (t *Target) Remaining(now time.Time) time.Duration {
	r := t.Lifetime - t.Elapsed(now)
	if r < 0 {
		return 0
	}
	return r
}

// Countdown is the whole seconds left, rounded up, for display.
func (t *Target) Countdown(now time.Time) int {
	return int(math.Ceil(t.Remaining(now).Seconds()))
}

// Update expires the target or moves it one step. Returns true once it is no longer active.
func (t *Target) Update(ctx UpdateContext) bool {
	if t.Phase != TargetActive {
		return true
	}
	if t.Expired(ctx.Now) {
		t.Phase = TargetExpired
		return true
	}
	// Hold still until the viewport is laid out again.
	if !ctx.Screen.Valid() {
		return false
	}

	if t.Turns != nil && t.Turns.ShouldTurn(t, ctx) {
		t.Turn(ctx.Rand.Float64()*2*math.Pi, ctx.Now)
	}

	f := ctx.Factor()
	t.X += t.VX * f
	t.Y += t.VY * f
	t.Reflect(ctx.Screen)
	return false
}

// Reflect clamps the target inside the viewport and points the velocity of
// every axis that touched a wall back inside.
func (t *Target) Reflect(screen Screen) {
	t.X, t.VX = reflectAxis(t.X, t.VX, t.Radius, screen.Width)
	t.Y, t.VY = reflectAxis(t.Y, t.VY, t.Radius, screen.Height)
}

func reflectAxis(pos, vel, r, extent float64) (float64, float64) {
	lo, hi := r, extent-r
	if hi < lo {
		// Viewport narrower than the target: pin to the middle.
		return extent / 2, vel
	}
	switch {
	case pos <= lo:
		return lo, math.Abs(vel)
	case pos >= hi:
		return hi, -math.Abs(vel)
	}
	return pos, vel
}

// Draw renders the target, optionally with its countdown.
func (t *Target) Draw(ctx DrawContext) {
	ctx.Surface.FillCircle(t.X, t.Y, t.Radius, ColorTarget)
	ctx.Surface.StrokeCircle(t.X, t.Y, t.Radius, ColorOutline)
	if ctx.Countdown {
		ctx.Surface.Text(t.X-4, t.Y-8, fmt.Sprintf("%d", t.Countdown(ctx.Now)), ColorOutline)
	}
}
