package logging

import (
	"context"
	"log/slog"
	"strings"
)

// componentLevelHandler enforces a minimum level that depends on the logger's
// component attribute. The wrapped handler must be configured with the most
// verbose level any component needs.
type componentLevelHandler struct {
	next      slog.Handler
	level     slog.Level
	base      slog.Level
	overrides map[string]slog.Level
}

func newComponentLevelHandler(next slog.Handler, base slog.Level, overrides map[string]slog.Level) slog.Handler {
	if next == nil {
		return NoopHandler{}
	}
	return &componentLevelHandler{next: next, level: base, base: base, overrides: overrides}
}

func (h *componentLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.level {
		return false
	}
	return h.next.Enabled(ctx, level)
}

func (h *componentLevelHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.level {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *componentLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &componentLevelHandler{
		next:      h.next.WithAttrs(attrs),
		level:     h.level,
		base:      h.base,
		overrides: h.overrides,
	}
	for _, attr := range attrs {
		if attr.Key != FieldComponent {
			continue
		}
		if lvl, ok := h.overrides[strings.ToLower(attr.Value.String())]; ok {
			clone.level = lvl
		} else {
			clone.level = h.base
		}
	}
	return clone
}

func (h *componentLevelHandler) WithGroup(name string) slog.Handler {
	return &componentLevelHandler{
		next:      h.next.WithGroup(name),
		level:     h.level,
		base:      h.base,
		overrides: h.overrides,
	}
}
