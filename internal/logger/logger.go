// Package logger provides the slog plumbing shared by the library packages
// and lasctl. Libraries log through a *slog.Logger passed in their options;
// a nil logger discards everything.
package logger

import (
	"io"
	"log/slog"
)

// Component is the attribute key naming the emitting subsystem.
const Component = "component"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Discard returns a logger that drops every record.
func Discard() *slog.Logger { return discard }

// OrDiscard returns l, or the discard logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discard
	}
	return l
}

// For returns l (or the discard logger) tagged with a component name.
func For(l *slog.Logger, component string) *slog.Logger {
	return OrDiscard(l).With(Component, "las:"+component)
}

// Options configures a logger built by New.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Level   slog.Level // Minimum log level. Default: LevelInfo
	JSON    bool       // Emit JSON records instead of text
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	if !opts.Enabled || w == nil {
		return discard
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
