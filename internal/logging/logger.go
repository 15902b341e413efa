package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithRequest returns a logger with request context fields attached.
func WithRequest(requestID, route string) *slog.Logger {
	return slog.With(
		"request_id", requestID,
		"route", route,
	)
}

// WithPipeline returns a logger scoped to one pipeline run (identification
// or question answering).
func WithPipeline(logger *slog.Logger, pipeline string) *slog.Logger {
	return logger.With("pipeline", pipeline)
}
