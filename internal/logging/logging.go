// Package logging builds the zerolog logger the binaries share.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "HIVECORE_LOG_LEVEL"
	EnvLogFormat  = "HIVECORE_LOG_FORMAT" // console (default) or json
	EnvLogNoColor = "HIVECORE_LOG_NOCOLOR"
)

// New returns a logger writing to w at the given level. Environment
// variables override both the level and the output format, so a deployed
// binary can be switched to JSON logs without a config change.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		lvl = zerolog.InfoLevel
	}
	if envLvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		lvl = envLvl
	}

	out := w
	if !strings.EqualFold(strings.TrimSpace(os.Getenv(EnvLogFormat)), "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: envBool(EnvLogNoColor)}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// ParseLevel maps a config/env level string to a zerolog level. The second
// return is false when raw names no known level.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func envBool(name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(name)))
	return err == nil && v
}
