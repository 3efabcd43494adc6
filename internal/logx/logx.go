// Package logx holds the process-wide logger shared by the UI and CLI
// layers. Logging is silent until the entry point installs a handler.
package logx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine,
// in particular the filesystem watcher.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for the whole application.
// Pass nil to disable logging (restore the default silent behavior).
//
// Levels in use:
//   - [slog.LevelDebug]: per-event diagnostics (transform broadcasts, reloads)
//   - [slog.LevelInfo]: lifecycle events (dataset opened, snapshot written)
//   - [slog.LevelWarn]: recoverable problems (load failures, capped datasets)
//   - [slog.LevelError]: failed user actions (snapshot or suffix write errors)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current application logger. Packages call this at
// the log site rather than caching the result so a handler installed
// later still takes effect.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
