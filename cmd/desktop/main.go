package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tomz197/reflex/internal/audio"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/desktop"
	"github.com/tomz197/reflex/internal/loop"
)

func main() {
	logger := config.NewLogger(os.Stderr, "reflex")

	settings, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	cues, err := audio.Open(config.GetEnvBool("REFLEX_SOUND", true), config.GetEnvFloat("REFLEX_VOLUME", 0.5))
	if err != nil {
		logger.Warn("sound disabled", "err", err)
	}
	defer cues.Close()

	ebiten.SetWindowTitle("Reflex")
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := desktop.New(loop.NewSession(settings, nil), cues, logger, config.GetEnvBool("REFLEX_STATS", false))
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("game error", "err", err)
	}
}
