package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// GenerateRequestID returns a new random request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns a copy of ctx carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger annotated with the request ID from ctx.
//
//	logging.Ctx(ctx).Info().Int("tracks", n).Msg("classified")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := logger()
	if id := RequestIDFromContext(ctx); id != "" {
		child := l.With().Str("request_id", id).Logger()
		return &child
	}
	return l
}
