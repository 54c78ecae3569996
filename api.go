package calfields

import (
	"context"

	"go.uber.org/zap"
)

// ---- Context options ----

type contextKey int

const (
	_ctxKeyLogger contextKey = iota
)

var nopLogger = zap.NewNop()

// WithLogger returns a child context whose preparations log through l.
// Passing nil restores the no-op logger.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, _ctxKeyLogger, l)
}

// LoggerFrom returns the logger carried by ctx, or a no-op logger.
func LoggerFrom(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return nopLogger
	}
	l, _ := ctx.Value(_ctxKeyLogger).(*zap.Logger)
	if l == nil {
		return nopLogger
	}
	return l
}
