package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide logger for the feed: production
// JSON output with ISO8601 timestamps, leveled via LOG_LEVEL (debug,
// info, warn, error; default info). Sync cycles and fetch failures all
// log through this with kebab-case event names.
func NewLogger() (*zap.Logger, error) {
	levelStr := getEnvOrDefault("LOG_LEVEL", "info")

	var level zapcore.Level
	err := level.UnmarshalText([]byte(levelStr))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelStr, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Fetch failures are routine events, not crashes; no stack traces.
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
