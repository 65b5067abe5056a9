package object

import (
	"time"

	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/physics"
)

// Projectile is a shot fired by the player. It travels in a straight line
// until its frame budget runs out or it leaves the viewport, depending on Expiry.
type Projectile struct {
	X, Y      float64 // Position
	VX, VY    float64 // Velocity per reference frame
	Frames    float64 // Remaining frame budget (ExpiryFrames)
	Expiry    config.ExpiryMode
	Margin    float64   // How far outside the viewport it may go (ExpiryBounds)
	FiredAt   time.Time // For travel-time telemetry
	destroyed bool
}

// Fire creates a projectile leaving the player towards (aimX, aimY).
// Aiming exactly at the player fires along +X.
func Fire(p Player, aimX, aimY float64, s config.Settings, expiry config.ExpiryMode, now time.Time) *Projectile {
	angle := physics.AimAngle(p.X, p.Y, aimX, aimY)
	vx, vy := physics.Velocity(angle, s.ShotSpeed)
	return &Projectile{
		X:       p.X,
		Y:       p.Y,
		VX:      vx,
		VY:      vy,
		Frames:  s.ShotFrames,
		Expiry:  expiry,
		Margin:  s.ShotMargin,
		FiredAt: now,
	}
}

// MarkDestroyed marks the projectile for removal.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the projectile is marked for destruction.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed
}

// Update moves the projectile and checks expiry.
func (p *Projectile) Update(ctx UpdateContext) bool {
	if p.destroyed {
		return true
	}
	f := ctx.Factor()

	p.X += p.VX * f
	p.Y += p.VY * f

	switch p.Expiry {
	case config.ExpiryBounds:
		// No viewport, no bounds to leave.
		return ctx.Screen.Valid() && !ctx.Screen.Contains(p.X, p.Y, p.Margin)
	default:
		p.Frames -= f
		return p.Frames <= 0
	}
}

// Draw renders the projectile as a short trail behind its head.
func (p *Projectile) Draw(ctx DrawContext) {
	ctx.Surface.Line(p.X, p.Y, p.X-p.VX*2, p.Y-p.VY*2, ColorShot)
}
