package obs

import (
	"io"
	"log/slog"
)

// NewLogger builds a structured logger writing to w at the given level,
// matching the handler setup in cmd/deptree/main.go.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything; safe default for library callers that
// don't want file-skip warnings on stderr.
func NoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
