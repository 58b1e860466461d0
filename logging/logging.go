// Package logging builds the structured loggers used by the command line tools.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// ParseLevel parses debug, info, warn or error (case insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return level, errors.Errorf("logging: unknown level %q", s)
	}
	return level, nil
}

// New returns a text logger writing to w at the given level. Debug loggers also report the source
// location of every record.
func New(w io.Writer, level string) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     l,
		AddSource: l <= slog.LevelDebug,
	})
	return slog.New(h), nil
}

// Module returns a child logger tagged with the component name, e.g. "speaker" or "midi".
func Module(l *slog.Logger, name string) *slog.Logger {
	return l.With("module", name)
}
