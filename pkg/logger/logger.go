package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. output is structured json on stderr,
// iso8601 timestamps.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "time"
	cfg.DisableStacktrace = true

	return cfg.Build()
}

// NewNop returns a logger that discards everything. used by tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
