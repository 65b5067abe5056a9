package loop

import (
	"fmt"
	"image/color"

	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/object"
)

// Text metrics in logical pixels, one terminal cell per character.
const (
	charWidth  = config.CellWidth
	lineHeight = config.CellHeight
)

const crosshairSize = 6.0

var (
	colorText = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorDim  = color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}
)

// Draw renders the session onto surf. notice, when set, is shown at the
// bottom of the screen on top of everything else.
func Draw(s *Session, surf draw.Surface, notice string) {
	surf.Clear()
	w, h := surf.Size()
	surf.FillRect(0, 0, w, h, object.ColorBackground)

	switch s.Phase {
	case PhaseMenu:
		drawMenu(s, surf, w, h)
	case PhasePlaying:
		drawWorld(s, surf)
		drawHUD(s, surf, w)
	case PhaseGameOver:
		drawWorld(s, surf)
		drawHUD(s, surf, w)
		drawGameOver(s, surf, w, h)
	}

	if notice != "" {
		centerText(surf, w, h-2*lineHeight, notice, colorText)
	}
}

// drawWorld draws every entity of the round.
func drawWorld(s *Session, surf draw.Surface) {
	ctx := object.DrawContext{
		Surface:   surf,
		Now:       s.now,
		Countdown: s.Level.Cap > 1,
	}

	s.Player().Draw(ctx)
	for _, p := range s.projectiles {
		p.Draw(ctx)
	}
	s.targets.Draw(ctx)
	for _, p := range s.particles {
		p.Draw(ctx)
	}

	if x, y, ok := s.Pointer(); ok {
		surf.Line(x-crosshairSize, y, x+crosshairSize, y, colorText)
		surf.Line(x, y-crosshairSize, x, y+crosshairSize, colorText)
	}
}

// drawHUD draws hits and level on the left, misses and accuracy on the right.
func drawHUD(s *Session, surf draw.Surface, w float64) {
	surf.Text(charWidth, 0, fmt.Sprintf("Hits: %d", s.Score), colorText)
	surf.Text(charWidth, lineHeight, fmt.Sprintf("Level %d", s.Level.Number), colorDim)

	missed := fmt.Sprintf("Missed: %d/%d", s.Missed, s.Settings.MaxMissed)
	surf.Text(w-float64(len(missed)+1)*charWidth, 0, missed, colorText)

	acc := "Accuracy: -"
	if t := s.telemetry; t.Fired > 0 {
		acc = fmt.Sprintf("Accuracy: %d%%", t.Hits*100/t.Fired)
	}
	surf.Text(w-float64(len(acc)+1)*charWidth, lineHeight, acc, colorDim)
}

// drawMenu draws the level select screen.
func drawMenu(s *Session, surf draw.Surface, w, h float64) {
	cy := h / 2
	centerText(surf, w, cy-4*lineHeight, "R E F L E X", colorText)
	centerText(surf, w, cy-2*lineHeight, "Hit the targets before they vanish", colorDim)

	y := cy
	for _, l := range s.Settings.Levels {
		centerText(surf, w, y, fmt.Sprintf("[%d] %s", l.Number, levelName(l)), colorText)
		y += lineHeight
	}

	centerText(surf, w, y+lineHeight, "Aim with the mouse, click/Q/SPACE to shoot", colorDim)
	centerText(surf, w, y+2*lineHeight, "R restarts, Ctrl-C quits", colorDim)
}

// drawGameOver draws the final score over the frozen round.
func drawGameOver(s *Session, surf draw.Surface, w, h float64) {
	cy := h / 2
	centerText(surf, w, cy-2*lineHeight, "GAME OVER", colorText)
	centerText(surf, w, cy, fmt.Sprintf("Hits: %d", s.Score), colorText)
	centerText(surf, w, cy+2*lineHeight, "Press R or ENTER for the menu", colorDim)
}

func levelName(l config.Level) string {
	if l.Cap == 1 {
		return "Single target"
	}
	return fmt.Sprintf("Up to %d targets", l.Cap)
}

func centerText(surf draw.Surface, w, y float64, s string, c color.Color) {
	x := w/2 - float64(len(s))*charWidth/2
	if x < 0 {
		x = 0
	}
	surf.Text(x, y, s, c)
}
