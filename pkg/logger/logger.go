// Package logger builds the zap loggers used across guildstore.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a configured level name onto a zap level
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// NewLogger creates a new zap logger with the specified level and format
func NewLogger(level, format string) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	// Create config based on format
	var config zap.Config
	if format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(zapLevel)
	// Log to stderr so command output on stdout stays machine readable
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

// Component returns a child logger tagged with the component name. A nil
// parent yields a no-op logger so optional loggers need no nil checks.
func Component(parent *zap.Logger, name string) *zap.Logger {
	if parent == nil {
		return zap.NewNop()
	}
	return parent.Named(name).With(zap.String("component", name))
}
