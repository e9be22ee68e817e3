package main

// #region imports
import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// #endregion imports

// #region logging

// newLogger builds the process logger: console on stderr, plus a rotated
// file when configured.
func newLogger(cfg appConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	var w io.Writer = console
	if cfg.LogFile != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// #endregion logging
