// Package desktop runs a session in a window with real mouse aim.
package desktop

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/reflex/internal/audio"
	"github.com/tomz197/reflex/internal/loop"
	"github.com/tomz197/reflex/internal/object"
)

// Game adapts a loop.Session to ebiten.Game.
type Game struct {
	session *loop.Session
	cues    audio.Player
	logger  *log.Logger
	surface ebitenSurface
	width   int
	height  int
	stats   bool // frame rate overlay
}

// New creates a game around session. Nil cues are silent.
func New(session *loop.Session, cues audio.Player, logger *log.Logger, stats bool) *Game {
	if cues == nil {
		cues = audio.Silent{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Game{session: session, cues: cues, logger: logger, stats: stats}
}

// Update reads this frame's input and advances the session.
// Escape ends the game with ebiten.Termination.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.session.Tick(time.Now(), object.Screen{Width: float64(g.width), Height: float64(g.height)}, readInput())
	for _, ev := range g.session.DrainEvents() {
		if cue, ok := loop.CueFor(ev); ok {
			g.cues.Play(cue)
		}
		switch ev.Type {
		case loop.EventLevelStart:
			g.logger.Info("level started", "level", ev.Level)
		case loop.EventGameOver:
			g.logger.Info("game over", "hits", g.session.Score, "missed", g.session.Missed)
		}
	}
	return nil
}

// readInput builds the tick input from ebiten's input state.
func readInput() loop.Input {
	mx, my := ebiten.CursorPosition()
	in := loop.Input{
		PointerX:   float64(mx),
		PointerY:   float64(my),
		HasPointer: true,
		Fire: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
			inpututil.IsKeyJustPressed(ebiten.KeyQ) ||
			inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Start:   inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		Restart: inpututil.IsKeyJustPressed(ebiten.KeyR),
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		in.Level = 1
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		in.Level = 2
	}
	return in
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.dst = screen
	loop.Draw(g.session, &g.surface, "")
	if g.stats {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f FPS %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()), 8, g.height-20)
	}
}

// Layout uses the window size as the logical size, so the viewport follows resizes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
