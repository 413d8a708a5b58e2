// Package logging configures structured logging for the governance
// service on top of log/slog, plus context helpers for carrying request,
// player, and biome identifiers through the evaluation path.
package logging
