package logging

import (
	"context"
	"log/slog"
)

// LevelHandler drops records below a minimum level before they reach the
// wrapped handler. Each component logger gets its own.
type LevelHandler struct {
	handler slog.Handler
	level   slog.Leveler
}

// NewLevelHandler wraps handler with a minimum level
func NewLevelHandler(handler slog.Handler, level slog.Leveler) *LevelHandler {
	// Avoid stacking level handlers
	if lh, ok := handler.(*LevelHandler); ok {
		handler = lh.handler
	}
	return &LevelHandler{handler: handler, level: level}
}

// Enabled implements slog.Handler
func (lh *LevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= lh.level.Level() && lh.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (lh *LevelHandler) Handle(ctx context.Context, record slog.Record) error {
	return lh.handler.Handle(ctx, record)
}

// WithAttrs implements slog.Handler
func (lh *LevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelHandler{handler: lh.handler.WithAttrs(attrs), level: lh.level}
}

// WithGroup implements slog.Handler
func (lh *LevelHandler) WithGroup(name string) slog.Handler {
	return &LevelHandler{handler: lh.handler.WithGroup(name), level: lh.level}
}
