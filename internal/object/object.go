// Package object holds the entities of a round: projectiles, targets and the
// machinery that spawns, moves and expires them.
package object

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/draw"
)

// Palette
var (
	ColorBackground = color.RGBA{A: 0xff}
	ColorPlayer     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ColorShot       = color.RGBA{G: 0xff, B: 0xff, A: 0xff}
	ColorTarget     = color.RGBA{R: 0xff, G: 0x30, B: 0x30, A: 0xff}
	ColorOutline    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ColorSpark      = color.RGBA{R: 0xff, G: 0xd0, B: 0x40, A: 0xff}
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Screen is the viewport in logical pixels. It may change between frames.
type Screen struct {
	Width  float64
	Height float64
}

// Valid reports whether the viewport has been laid out.
func (s Screen) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Center returns the middle of the viewport.
func (s Screen) Center() (x, y float64) {
	return s.Width / 2, s.Height / 2
}

// Contains reports whether (x, y) lies inside the viewport grown by margin on every side.
func (s Screen) Contains(x, y, margin float64) bool {
	return x >= -margin && x <= s.Width+margin && y >= -margin && y <= s.Height+margin
}

// Player is the stationary shooter. It is never stored; PlayerAt derives it
// from the current viewport every tick.
type Player struct {
	X, Y   float64
	Radius float64
}

// PlayerAt returns the player for a viewport.
func PlayerAt(screen Screen, radius float64) Player {
	x, y := screen.Center()
	return Player{X: x, Y: y, Radius: radius}
}

// Draw renders the player disc.
func (p Player) Draw(ctx DrawContext) {
	ctx.Surface.FillCircle(p.X, p.Y, p.Radius, ColorPlayer)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Now     time.Time
	Delta   time.Duration
	Screen  Screen
	Rand    *rand.Rand
	Spawner Spawner
}

// Factor is the frame delta in reference frames, so per-frame speeds stay
// frame-rate independent.
func (c UpdateContext) Factor() float64 {
	return float64(c.Delta) / float64(config.ReferenceFrame)
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Surface   draw.Surface
	Now       time.Time
	Countdown bool // draw remaining seconds inside targets
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool)

	// Draw draws the object onto ctx.Surface.
	Draw(ctx DrawContext)
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// UpdateAll updates objects in place, dropping (and releasing) those that ask for removal.
func UpdateAll(objs []Object, ctx UpdateContext) []Object {
	kept := objs[:0] // reuse backing array
	for _, obj := range objs {
		if obj.Update(ctx) {
			ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(objs[len(kept):])
	return kept
}
