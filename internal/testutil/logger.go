package testutil

import (
	"io"
	"log/slog"

	"github.com/dazuba/feature-votes/internal/logger"
)

// NewNoopLogger returns a logger that discards everything; for tests.
func NewNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))}
}
