package logger

import (
	"context"
	"io"
	"log/slog"
)

// LevelSuccess sits between Info and Warn and marks operations that
// completed (server started, restart confirmed). slog renders it as
// "INFO+2"; the color handler names it SUCCESS.
const LevelSuccess = slog.Level(2)

// ColorTextHandler wraps slog.TextHandler to prefix messages with an ANSI
// colored level tag.
type ColorTextHandler struct {
	*slog.TextHandler
	showTime bool
}

func NewColorTextHandler(w io.Writer, opts *slog.HandlerOptions, showTime bool) *ColorTextHandler {
	return &ColorTextHandler{
		TextHandler: slog.NewTextHandler(w, opts),
		showTime:    showTime,
	}
}

// Handle implements slog.Handler.
func (h *ColorTextHandler) Handle(ctx context.Context, r slog.Record) error {
	var colorCode, tag string
	switch {
	case r.Level < slog.LevelInfo:
		colorCode, tag = "\033[36m", "DEBUG" // Cyan
	case r.Level == LevelSuccess:
		colorCode, tag = "\033[32m", "SUCCESS" // Green
	case r.Level >= slog.LevelError:
		colorCode, tag = "\033[31m", "ERROR" // Red
	case r.Level >= slog.LevelWarn:
		colorCode, tag = "\033[33m", "WARN" // Yellow
	default:
		colorCode, tag = "\033[32m", "INFO" // Green
	}

	r.Message = colorCode + tag + "\033[0m  " + r.Message
	return h.TextHandler.Handle(ctx, r)
}

// teeHandler fans a record out to the console handler and the rolling
// operator log.
type teeHandler [2]slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t[0].Enabled(ctx, level) || t[1].Enabled(ctx, level)
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	err := t[0].Handle(ctx, r.Clone())
	if err2 := t[1].Handle(ctx, r); err == nil {
		err = err2
	}
	return err
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{t[0].WithAttrs(attrs), t[1].WithAttrs(attrs)}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{t[0].WithGroup(name), t[1].WithGroup(name)}
}
