package web

import (
	"context"
	"log/slog"

	"github.com/Olprog59/go-contenthub/internal/service/auth"
)

// ContextKey is a custom type used for creating context keys.
// Using a custom type for context keys helps prevent collisions between keys
// defined in different packages.
type ContextKey string

// Context keys set by the middlewares / Clés de contexte posées par les middlewares
const (
	ClaimsContextKey    = ContextKey("claims")
	UserIDContextKey    = ContextKey("user_id")
	RequestIDContextKey = ContextKey("request_id")
	LoggerContextKey    = ContextKey("logger")
)

// ClaimsFromContext returns the authenticated claims, if any / Retourne les claims authentifiés
func ClaimsFromContext(ctx context.Context) (*auth.CustomClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.CustomClaims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user id, if any / Retourne l'id de l'utilisateur authentifié
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDContextKey).(int64)
	return id, ok
}

// GetRequestID extracts request ID from context / Extrait l'ID de la requête du contexte
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}

// LoggerFromContext returns the request logger, falling back to fallback.
func LoggerFromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return fallback
}
