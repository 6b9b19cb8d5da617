// Package logging builds the zap logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level and destination of the logger.
type Options struct {
	// Level is a zap level name (debug, info, warn, error). Empty means info.
	Level string

	// File receives the log instead of stderr when set. The TUI always
	// logs to a file so output does not tear the screen.
	File string

	// Verbose forces the debug level.
	Verbose bool
}

// New builds a production-style JSON logger.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", opts.Level, err)
		}
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("app", "campuscalm")), nil
}
