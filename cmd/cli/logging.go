package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

var logger = slog.New(slog.DiscardHandler)

// Returns the logger configured for the running command
func Logger() *slog.Logger {
	return logger
}

// Parses a log level name (debug, info, warn, error)
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return level, fmt.Errorf("invalid log level '%v': %w", name, err)
	}

	return level, nil
}

// Builds a logger writing text records to console and, if jsonOutput is not nil,
// every record as JSON to jsonOutput regardless of the level
func NewLogger(level slog.Level, console io.Writer, jsonOutput io.Writer) *slog.Logger {
	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
	}

	if jsonOutput != nil {
		handlers = append(handlers, slog.NewJSONHandler(jsonOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// Configures the command logger from the log.level and log.file settings. Returns
// a function closing the log file
func SetupLogging(levelName string, file string) (func() error, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	if file == "" {
		logger = NewLogger(level, os.Stderr, nil)
		return func() error { return nil }, nil
	}

	output, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}

	logger = NewLogger(level, os.Stderr, output)
	return output.Close, nil
}
