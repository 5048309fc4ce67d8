// Package logging builds the zerolog loggers used across geckobrowser.
//
// Loggers are passed explicitly to the components that need them; a logger can
// also ride along on a context:
//
//	ctx := logging.WithLogger(ctx, log)
//	logging.FromContext(ctx).Info().Int("items", n).Msg("catalog loaded")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error, off.
	Level string

	// Format is auto, console or json. Auto picks console on a terminal.
	Format string

	// Output is stderr, stdout, discard, or a file path (appended to).
	Output string

	// NoColor disables color in console format.
	NoColor bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  "auto",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// Nop discards everything.
var Nop = zerolog.Nop()

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger from cfg. The returned closer releases the log file
// when Output is a path. An unopenable file falls back to stderr.
func New(cfg Config) (zerolog.Logger, io.Closer) {
	level := ParseLevel(cfg.Level)
	out, closer := openOutput(cfg.Output)

	var w io.Writer = out
	switch format(cfg.Format, out) {
	case "console":
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger, closer
}

func openOutput(output string) (*os.File, io.Closer) {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "stderr":
		return os.Stderr, nopCloser{}
	case "stdout":
		return os.Stdout, nopCloser{}
	case "discard", "none":
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return os.Stderr, nopCloser{}
		}
		return f, f
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return os.Stderr, nopCloser{}
	}
	return f, f
}

func format(requested string, out *os.File) string {
	switch strings.ToLower(requested) {
	case "console", "pretty":
		return "console"
	case "json":
		return "json"
	}
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		return "console"
	}
	return "json"
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "", "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(level); err == nil {
		return l
	}
	return zerolog.InfoLevel
}
