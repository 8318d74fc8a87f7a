package ghetty

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is installed until SetLogger is called. It is disabled at every
// level, so the renderer's debug records cost a single check per draw call.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by ghetty. By default nothing is
// logged; pass nil to restore that.
//
// Levels used:
//   - [slog.LevelDebug]: per draw call statistics, renderer and texture creation
//   - [slog.LevelWarn]: model lines that were skipped while loading
func SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = newNopLogger()
	}

	loggerPtr.Store(logger)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
