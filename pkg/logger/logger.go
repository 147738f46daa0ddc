// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the logger that middleware.Logger stored in the request
// context, so every line a handler or repository writes carries the
// request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "id", id)
//	// → time=... level=INFO msg="product created" request_id=9f1c... id=65f...
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/catalog/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Use replaces the process logger with one writing to h, e.g. a MultiHandler
// that also feeds the MongoDB sink.
func Use(h slog.Handler) {
	L = slog.New(h)
	slog.SetDefault(L)
}

// Base returns the stdout handler the package was initialised with.
func Base() slog.Handler { return baseHandler() }

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the request logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// LevelFor picks the level a request line is logged at: Error for 5xx,
// Warn for 4xx, Info otherwise.
func LevelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
