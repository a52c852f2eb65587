// Package logging builds the process-wide structured logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a zap logger for the given environment name. Production
// environments get JSON output; everything else gets the development console
// encoder.
func New(environment string) (*zap.Logger, error) {
	if strings.EqualFold(strings.TrimSpace(environment), "production") {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
	return zap.NewDevelopment()
}

// NewNop returns a logger that discards everything. Intended for tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
