// Package action defines the telemetry action model: the immutable record of
// a single player-submitted action that flows into the governance pipeline.
//
// An action carries an anonymized player id, a session id, the action kind,
// the world position, a snapshot of the player's game state, and an optional
// free-text rationale. It carries no identity beyond the anonymized player id.
//
// Actions are validated once on ingress (see Validate) and never mutated
// afterwards. Malformed actions are surfaced to the caller as input errors;
// they are never silently defaulted, scored, or exported.
package action
