package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	return withStr(ctx, "component", component)
}

// WithWindowID creates a child logger with a window_id field
func WithWindowID(ctx context.Context, windowID string) context.Context {
	return withStr(ctx, "window_id", windowID)
}

// WithTabID creates a child logger with a tab_id field
func WithTabID(ctx context.Context, tabID string) context.Context {
	return withStr(ctx, "tab_id", tabID)
}

// WithPaneID creates a child logger with a pane_id field
func WithPaneID(ctx context.Context, paneID string) context.Context {
	return withStr(ctx, "pane_id", paneID)
}

// WithURL creates a child logger with a url field
func WithURL(ctx context.Context, url string) context.Context {
	return withStr(ctx, "url", url)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str(key, value).Logger()
	return WithContext(ctx, childLogger)
}

// TruncateURL shortens u to at most maxLen bytes for log output.
func TruncateURL(u string, maxLen int) string {
	if maxLen <= 3 || len(u) <= maxLen {
		return u
	}
	return u[:maxLen-3] + "..."
}
