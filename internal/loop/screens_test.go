package loop

import (
	"image/color"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/reflex/internal/config"
)

// recordingSurface records draw calls.
type recordingSurface struct {
	w, h    float64
	circles int
	lines   int
	texts   []string
}

func (r *recordingSurface) Size() (float64, float64) { return r.w, r.h }

func (r *recordingSurface) Clear() {}

func (r *recordingSurface) FillRect(_, _, _, _ float64, _ color.Color) {}

func (r *recordingSurface) FillCircle(_, _, _ float64, _ color.Color) { r.circles++ }

func (r *recordingSurface) StrokeCircle(_, _, _ float64, _ color.Color) { r.circles++ }

func (r *recordingSurface) Line(_, _, _, _ float64, _ color.Color) { r.lines++ }

func (r *recordingSurface) Text(_, _ float64, s string, _ color.Color) {
	r.texts = append(r.texts, s)
}

func (r *recordingSurface) hasText(sub string) bool {
	for _, t := range r.texts {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

func TestDrawScreens(t *testing.T) {
	s := NewSession(config.Default(), rand.New(rand.NewSource(1)))
	surf := &recordingSurface{w: 800, h: 600}

	Draw(s, surf, "")
	if !surf.hasText("[1]") || !surf.hasText("[2]") {
		t.Fatalf("menu should list the levels, got %q", surf.texts)
	}

	t0 := time.Unix(1, 0)
	s.Tick(t0, testScreen, Input{Level: 2})
	s.Tick(t0.Add(1500*time.Millisecond), testScreen, Input{PointerX: 10, PointerY: 10, HasPointer: true})

	surf = &recordingSurface{w: 800, h: 600}
	Draw(s, surf, "idle")
	if !surf.hasText("Missed: 0/10") || !surf.hasText("Level 2") {
		t.Fatalf("expected HUD, got %q", surf.texts)
	}
	if !surf.hasText("idle") {
		t.Fatal("expected the notice")
	}
	// Player disc plus one filled and one stroked circle per target.
	if surf.circles < 3 {
		t.Fatalf("expected player and target circles, got %d", surf.circles)
	}
	// HUD is four lines; level 2 adds a countdown per target.
	if len(surf.texts) <= 5 {
		t.Fatalf("expected target countdowns, got %q", surf.texts)
	}
	if surf.lines < 2 {
		t.Fatal("expected a crosshair")
	}
}
