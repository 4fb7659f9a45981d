package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Log output formats accepted by NewLogger.
const (
	FormatConsole = "console"
	FormatText    = "text"
	FormatJSON    = "json"
)

// ErrUnknownFormat is returned by NewLogger for an unsupported format.
var ErrUnknownFormat = errors.New("unknown log format")

// NewLogger returns a masking logger in the given format.
func NewLogger(format string, w io.Writer, verbose bool) (*slog.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatConsole, "":
		return NewSecureConsoleLogger(w, verbose), nil
	case FormatText:
		return NewSecureLogger(w, verbose), nil
	case FormatJSON:
		return NewSecureJSONLogger(w, verbose), nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s, %s or %s)", ErrUnknownFormat, format, FormatConsole, FormatText, FormatJSON)
	}
}

// NewSecureConsoleLogger returns a human-oriented logger for terminals.
// Colors are enabled only when w is a terminal.
func NewSecureConsoleLogger(w io.Writer, verbose bool) *slog.Logger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	console := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "seolens",
	})
	return slog.New(NewSecureHandler(console))
}
