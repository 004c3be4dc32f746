package veneer

import (
	"context"
	"log/slog"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// logger is a plain variable: veneer is single-threaded, like the frame
// loop that drives it.
var logger = slog.New(nopHandler{})

// SetLogger configures the logger used by veneer and its host packages. By
// default nothing is logged. Pass nil to restore silence.
//
// Levels used:
//   - [slog.LevelDebug]: pool growth, surface setup and cleanup, frame stats
//   - [slog.LevelWarn]: spec leaves without a registered entity, bad markup
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger = l
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger
}
