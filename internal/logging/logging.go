// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sant0-9/gptkit/internal/config"
)

// Setup installs the global logger. Logs go to stderr so they never mix
// with command output on stdout, and additionally to cfg.File when set.
func Setup(cfg config.LoggingConfig, verbose bool) {
	log.Logger = New(os.Stderr, cfg, verbose)
	zerolog.DefaultContextLogger = &log.Logger
}

// New builds a logger writing to w (and cfg.File, if any).
func New(w io.Writer, cfg config.LoggingConfig, verbose bool) zerolog.Logger {
	level := ParseLevel(cfg.Level)
	if verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = w
	if strings.ToLower(cfg.Format) != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	if cfg.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a config level name to a zerolog level, defaulting to warn.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
