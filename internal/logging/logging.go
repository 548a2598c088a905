// Package logging builds the zap loggers used by the command-line tools.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Modes accepted by New.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeNop         = "nop"
)

// New returns a logger for mode. Development logs are human readable,
// production logs are JSON. Verbose lowers the level to debug.
func New(mode string, verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "", "dev", ModeDevelopment:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.DisableStacktrace = true
	case "prod", ModeProduction:
		cfg = zap.NewProductionConfig()
	case ModeNop, "off", "none":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("logging: unknown mode %q", mode)
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return l, nil
}

// Sync flushes l, ignoring the errors stderr returns on some platforms.
func Sync(l *zap.Logger) {
	_ = l.Sync()
}
