// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
)

var base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetLogger replaces the logger used by repository and websocket loggers.
func SetLogger(l *slog.Logger) {
	if l != nil {
		base = l
	}
}

// RepoLoggingEnabled toggles repository audit records.
var RepoLoggingEnabled = true

// RepoLogger writes audit records for repository writes.
type RepoLogger struct {
	table string
}

// NewRepoLogger creates a RepoLogger for the given table.
func NewRepoLogger(table string) *RepoLogger {
	return &RepoLogger{table: table}
}

func (l *RepoLogger) log(ctx context.Context, op string, fields map[string]any) {
	if !RepoLoggingEnabled {
		return
	}
	attrs := []any{slog.String("table", l.table), slog.String("operation", op)}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	base.InfoContext(ctx, "repository "+op, attrs...)
}

// LogCreate records an insert.
func (l *RepoLogger) LogCreate(ctx context.Context, fields map[string]any) {
	l.log(ctx, "create", fields)
}

// LogUpdate records an update.
func (l *RepoLogger) LogUpdate(ctx context.Context, fields map[string]any) {
	l.log(ctx, "update", fields)
}

// LogDelete records a delete.
func (l *RepoLogger) LogDelete(ctx context.Context, fields map[string]any) {
	l.log(ctx, "delete", fields)
}

// LogError records a failed repository operation.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	if !RepoLoggingEnabled || err == nil {
		return
	}
	base.ErrorContext(ctx, "repository error",
		slog.String("table", l.table),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// WSLogger writes connection lifecycle records for a websocket hub.
type WSLogger struct {
	hub string
}

// NewWSLogger creates a WSLogger for the given hub.
func NewWSLogger(hub string) *WSLogger {
	return &WSLogger{hub: hub}
}

// LogConnect records a new connection.
func (l *WSLogger) LogConnect(ctx context.Context, userID uint) {
	base.InfoContext(ctx, "websocket connected",
		slog.String("hub", l.hub),
		slog.Uint64("user_id", uint64(userID)),
	)
}

// LogDisconnect records a closed connection.
func (l *WSLogger) LogDisconnect(ctx context.Context, userID uint, reason string) {
	base.InfoContext(ctx, "websocket disconnected",
		slog.String("hub", l.hub),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("reason", reason),
	)
}

// LogError records a websocket failure.
func (l *WSLogger) LogError(ctx context.Context, userID uint, err error, eventType string) {
	base.ErrorContext(ctx, "websocket error",
		slog.String("hub", l.hub),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}
