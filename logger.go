package pixfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler drops every record. Enabled reports false so callers skip
// formatting entirely.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(discardHandler{}))
}

// SetLogger configures the logger shared by pixfx and its sub-packages.
// By default nothing is logged. Passing nil restores the silent default.
// SetLogger is safe for concurrent use.
//
// Levels used:
//   - [slog.LevelDebug]: execution path and lane width chosen per call.
//   - [slog.LevelWarn]: precondition failures reduced to a boolean at the binding boundary.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
