// Package logging holds the process-wide zerolog logger.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("starting server")
//	logging.Ctx(ctx).Warn().Err(err).Msg("skipping track")
//
// Events are only written once Msg or Send is called.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the level, encoding and destination of log output.
type Config struct {
	// Level is trace, debug, info, warn, error or disabled. Unknown names mean info.
	Level string
	// Format is json or console.
	Format string
	// Caller annotates entries with file:line.
	Caller bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig logs JSON at info level to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

var current atomic.Pointer[zerolog.Logger]

func init() {
	Init(DefaultConfig())
}

// Init replaces the global logger. It may be called again, for example
// after flags override the configured level.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()
	current.Store(&l)
}

// ParseLevel maps a level name to a zerolog.Level. "warning" is accepted
// and anything unrecognized is info.
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func logger() *zerolog.Logger {
	return current.Load()
}

// Info starts an info-level event on the global logger.
func Info() *zerolog.Event { return logger().Info() }

// Warn starts a warn-level event on the global logger.
func Warn() *zerolog.Event { return logger().Warn() }

// Error starts an error-level event on the global logger.
func Error() *zerolog.Event { return logger().Error() }
