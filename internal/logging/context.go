package logging

import (
	"context"
	"log/slog"

	"viddl/internal/services"
)

// Standard attribute keys.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldURL       = "url"
	FieldStage     = "stage"
	FieldEventType = "event_type"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// WithContext returns logger with the run ID, task URL and stage carried by
// ctx attached.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	var args []any
	if id, ok := services.RunIDFromContext(ctx); ok {
		args = append(args, String(FieldRunID, id))
	}
	if url, ok := services.TaskURLFromContext(ctx); ok {
		args = append(args, String(FieldURL, url))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		args = append(args, String(FieldStage, stage))
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
