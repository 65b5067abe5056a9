package config

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger creates the structured logger shared by a command. LOG_LEVEL
// picks the level (debug, info, warn, error); unknown values mean info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}
