package object

import (
	"math"
	"math/rand"
	"sync"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived spark thrown off a hit target. Purely visual.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity per reference frame
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay per reference frame (1.0 = no drag)
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.93
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnBurst throws count sparks out of (x, y) in a circular burst.
func SpawnBurst(x, y float64, count int, speed, lifetime float64, spawner Spawner, rng *rand.Rand) {
	if spawner == nil || rng == nil {
		return
	}

	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rng.Float64())
		// Random lifetime variation (50% to 100%)
		life := lifetime * (0.5 + rng.Float64()*0.5)

		spawner.Spawn(NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life))
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) bool {
	p.Lifetime -= ctx.Delta.Seconds()
	if p.Lifetime <= 0 {
		return true
	}

	f := ctx.Factor()
	drag := math.Pow(p.Drag, f)
	p.VX *= drag
	p.VY *= drag

	p.X += p.VX * f
	p.Y += p.VY * f
	return false
}

// Draw renders the particle as a small dot.
func (p *Particle) Draw(ctx DrawContext) {
	// Skip faded particles (< 25% lifetime)
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return
	}
	ctx.Surface.FillCircle(p.X, p.Y, 2, ColorSpark)
}
