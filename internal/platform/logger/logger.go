package logger

import (
	"context"
)

// Logger is the logging contract used across the application.
// Keeping it behind an interface lets tests swap in a silent backend.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}
