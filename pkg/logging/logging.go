package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is a log level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format is the log output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var levels = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level written.
	Level Level
	// Format selects text or JSON records.
	Format Format
	// Output receives the records. Defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger from cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// FromSettings creates a logger from the level and format names used in
// configuration files. Unknown names fall back to warn and text.
func FromSettings(level, format string, out io.Writer) *slog.Logger {
	cfg := Config{Level: LevelWarn, Format: FormatText, Output: out}
	if l, ok := LookupLevel(level); ok {
		cfg.Level = l
	}
	if f, ok := LookupFormat(format); ok {
		cfg.Format = f
	}
	return New(cfg)
}

// LookupLevel resolves a level name, ignoring case.
func LookupLevel(name string) (Level, bool) {
	l, ok := levels[strings.ToLower(name)]
	return l, ok
}

// LookupFormat resolves a format name, ignoring case.
func LookupFormat(name string) (Format, bool) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatJSON:
		return f, true
	}
	return "", false
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrNop returns l, or Nop() when l is nil.
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}
