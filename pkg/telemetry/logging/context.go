package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// PlayerIDKey is the context key for player identifiers.
	PlayerIDKey contextKey = "player_id"

	// BiomeIDKey is the context key for biome identifiers.
	BiomeIDKey contextKey = "biome_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithPlayerID adds a player identifier to the context.
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, PlayerIDKey, playerID)
}

// GetPlayerID retrieves the player identifier from the context.
func GetPlayerID(ctx context.Context) string {
	if playerID, ok := ctx.Value(PlayerIDKey).(string); ok {
		return playerID
	}
	return ""
}

// WithBiomeID adds a biome identifier to the context.
func WithBiomeID(ctx context.Context, biomeID string) context.Context {
	return context.WithValue(ctx, BiomeIDKey, biomeID)
}

// GetBiomeID retrieves the biome identifier from the context.
func GetBiomeID(ctx context.Context) string {
	if biomeID, ok := ctx.Value(BiomeIDKey).(string); ok {
		return biomeID
	}
	return ""
}

// ContextFields extracts common fields from context for logging. Returns
// a slice of key-value pairs suitable for logger.With().
func ContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if playerID := GetPlayerID(ctx); playerID != "" {
		fields = append(fields, "player_id", playerID)
	}
	if biomeID := GetBiomeID(ctx); biomeID != "" {
		fields = append(fields, "biome_id", biomeID)
	}

	return fields
}
