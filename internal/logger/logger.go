// internal/logger/logger.go
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option adjusts the zap config before it is built.
type Option func(*zap.Config) error

// WithLevel sets the minimum level from its name ("debug", "info", ...).
// An empty name keeps the preset level.
func WithLevel(name string) Option {
	return func(cfg *zap.Config) error {
		if name == "" {
			return nil
		}
		lvl, err := zapcore.ParseLevel(name)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		return nil
	}
}

// WithOutput replaces the output sinks, e.g. a file path or "stderr".
func WithOutput(paths ...string) Option {
	return func(cfg *zap.Config) error {
		if len(paths) > 0 {
			cfg.OutputPaths = paths
		}
		return nil
	}
}

// New creates a new zap logger
func New(development bool, opts ...Option) (*zap.Logger, error) {
	var cfg zap.Config

	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return cfg.Build()
}

// Must creates a logger or panics
func Must(development bool, opts ...Option) *zap.Logger {
	log, err := New(development, opts...)
	if err != nil {
		panic(err)
	}
	return log
}
