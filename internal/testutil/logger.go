package testutil

import (
	"io"
	"log/slog"

	"github.com/harlo-app/harlo-server/internal/logger"
)

// MakeNoopLogger returns a Logger that discards all records.
func MakeNoopLogger() *logger.Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return &logger.Logger{Logger: slog.New(handler)}
}
