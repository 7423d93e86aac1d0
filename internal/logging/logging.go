// Package logging builds the colored slog logger used by biweekly.
//
// The level comes from config (log.level) or BIWEEKLY_LOG_LEVEL: debug, info,
// warn or error. The CLI defaults to warn so command output stays clean.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "BIWEEKLY_LOG_LEVEL"

// DefaultLevel is used when neither config nor env sets a level.
const DefaultLevel = slog.LevelWarn

// Options configures New.
type Options struct {
	Level   slog.Level
	NoColor bool
	Source  bool
}

// New returns a tint-backed logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      opts.Level,
		TimeFormat: time.Kitchen,
		AddSource:  opts.Source,
		NoColor:    opts.NoColor,
	}))
}

// Setup builds a stderr logger at level, installs it as the slog default and
// returns it. Color is turned off when NO_COLOR is set.
func Setup(level slog.Level) *slog.Logger {
	_, noColor := os.LookupEnv("NO_COLOR")
	logger := New(os.Stderr, Options{Level: level, NoColor: noColor, Source: level <= slog.LevelDebug})
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to a slog.Level. The empty string yields DefaultLevel.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLevel, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return DefaultLevel, fmt.Errorf("unknown log level %q", s)
}
