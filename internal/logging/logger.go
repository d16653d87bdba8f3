// Package logging builds the slog loggers used by the command-line tools.
//
// Library packages never configure logging themselves; they accept a
// *slog.Logger through options and default to a discarding logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	clog "github.com/charmbracelet/log"
)

// Format selects the handler used for log output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseLevel converts debug, info, warn or error (case-insensitive) to a
// slog.Level. An empty string means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat validates a log format name. An empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown log format %q", s)
}

// New returns a logger writing to w. Text output goes through the
// charmbracelet console handler; JSON output uses slog's JSON handler.
func New(w io.Writer, level slog.Level, format Format) *slog.Logger {
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	h := clog.NewWithOptions(w, clog.Options{
		Level:           clog.Level(level),
		ReportTimestamp: true,
		Prefix:          "krypt",
	})
	return slog.New(h)
}

// Setup parses level and format, builds a logger and installs it as the
// slog default.
func Setup(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	logger := New(w, lvl, f)
	slog.SetDefault(logger)
	return logger, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
