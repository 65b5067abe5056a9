// Package loop drives a game session: the per-tick simulation, collision
// resolution, screens and the terminal run loop.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/reflex/internal/audio"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/input"
	"github.com/tomz197/reflex/internal/object"
)

// Options configures a terminal session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	Settings     config.Settings
	Rand         *rand.Rand   // nil seeds from Settings
	Cues         audio.Player // nil is silent
	Inactivity   bool         // warn and disconnect idle players (SSH)
}

// Run plays one session on a terminal until the player quits, the input
// ends, the player idles out or ctx is cancelled. Cancellation shows a
// shutdown notice for a few seconds before returning.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	cues := opts.Cues
	if cues == nil {
		cues = audio.Silent{}
	}

	session := NewSession(opts.Settings, opts.Rand)
	stream := input.StartStream(r)
	defer stream.Stop()
	cw := draw.NewChunkWriter(w)

	draw.HideCursor(w)
	draw.EnableMouse(w)
	defer draw.ShowCursor(w)
	defer draw.DisableMouse(w)
	draw.ClearScreen(w)

	cols, rows, _ := termSizeFunc()
	surface := draw.NewTerminalSurface(cols, rows, config.CellWidth, config.CellHeight)

	lastInput := time.Now()
	var shutdownAt time.Time

	for {
		frameStart := time.Now()

		if shutdownAt.IsZero() {
			select {
			case <-ctx.Done():
				shutdownAt = frameStart
				logger.Info("shutdown notice shown")
			default:
			}
		} else if frameStart.Sub(shutdownAt) >= config.ShutdownDisplay {
			break
		}

		// ===== INPUT PHASE =====
		raw := input.ReadInput(stream)
		if raw.Quit || raw.Closed {
			break
		}

		notice := ""
		if raw.Active() {
			lastInput = frameStart
		} else if opts.Inactivity && session.Phase != PhasePlaying {
			idle := frameStart.Sub(lastInput).Seconds()
			if idle > config.InactivityDisconnectUser {
				logger.Info("disconnecting idle player", "idle", time.Duration(idle*float64(time.Second)).Round(time.Second))
				break
			}
			if idle > config.InactivityWarnUser {
				notice = fmt.Sprintf("Idle: disconnecting in %d seconds", int(config.InactivityDisconnectUser-idle)+1)
			}
		}

		// ===== UPDATE PHASE =====
		if cols, rows, err := termSizeFunc(); err == nil && surface.Resize(cols, rows) {
			draw.ClearScreen(w)
			logger.Debug("terminal resized", "cols", cols, "rows", rows)
		}
		lw, lh := surface.Size()
		screen := object.Screen{Width: lw, Height: lh}

		in := Input{
			Fire:    raw.Fire,
			Level:   raw.Level,
			Start:   raw.Start,
			Restart: raw.Restart,
		}
		if raw.PointerCol > 0 && raw.PointerRow > 0 {
			in.PointerX, in.PointerY = surface.CellToLogical(raw.PointerCol, raw.PointerRow)
			in.HasPointer = true
		}

		session.Tick(frameStart, screen, in)
		for _, ev := range session.DrainEvents() {
			if cue, ok := CueFor(ev); ok {
				cues.Play(cue)
			}
			logEvent(logger, session, ev)
		}

		// ===== DRAW PHASE =====
		if !shutdownAt.IsZero() {
			left := config.ShutdownDisplay - frameStart.Sub(shutdownAt)
			notice = fmt.Sprintf("SERVER SHUTTING DOWN - disconnecting in %d seconds", int(left.Seconds())+1)
		}
		Draw(session, surface, notice)
		if err := surface.Flush(cw); err != nil {
			return fmt.Errorf("render frame: %w", err)
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(w)
	return nil
}

// CueFor maps a session event to its sound cue.
func CueFor(ev Event) (audio.Cue, bool) {
	switch ev.Type {
	case EventFire:
		return audio.CueFire, true
	case EventHit:
		return audio.CueHit, true
	case EventMiss:
		return audio.CueMiss, true
	case EventGameOver:
		return audio.CueGameOver, true
	case EventLevelStart:
		return audio.CueStart, true
	}
	return 0, false
}

// logEvent logs the session milestones. Per-shot events stay at debug level.
func logEvent(logger *log.Logger, s *Session, ev Event) {
	switch ev.Type {
	case EventLevelStart:
		logger.Info("level started", "level", ev.Level, "cap", s.Level.Cap)
	case EventGameOver:
		logger.Info("game over",
			"level", s.Level.Number,
			"hits", s.Score,
			"missed", s.Missed,
			"fired", s.telemetry.Fired,
			"duration", s.now.Sub(s.StartedAt).Round(time.Millisecond))
	case EventRestart:
		logger.Info("restart", "level", s.Level.Number)
	case EventHit:
		logger.Debug("hit", "target", ev.TargetID, "travel", ev.Travel)
	case EventMiss:
		logger.Debug("miss", "target", ev.TargetID, "missed", s.Missed)
	}
}
