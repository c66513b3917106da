package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger used across the tracker.
type Logger struct {
	*zap.Logger
}

// Options controls where and how verbosely the logger writes.
type Options struct {
	// Level is a zap level name (debug, info, warn, error). Empty means info.
	Level string
	// File redirects log output to a file. Empty means stdout.
	File string
}

// NewLogger creates a logger with the production configuration at info level.
func NewLogger() (*Logger, error) {
	return NewLoggerWithOptions(Options{Level: "", File: ""})
}

// NewLoggerWithOptions creates a logger from the production configuration
// with the given level and output file.
func NewLoggerWithOptions(opts Options) (*Logger, error) {
	config := zap.NewProductionConfig()

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	if opts.File != "" {
		// the dashboard owns the terminal, so everything goes to the file
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, err
		}
	}

	config.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{
		Logger: zap.NewNop(),
	}
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
