// Gaian is the governance decision pipeline for game telemetry.
//
// It evaluates player-submitted actions through anti-cheat, ethics, and
// novelty scoring, gates training-data exports behind buyer authorization
// and classification checks, and keeps an append-only audit trail of
// every export decision.
//
// Usage:
//
//	# Start the server with the default configuration
//	gaian run
//
//	# Start with a custom configuration file
//	gaian run --config /etc/gaian/gaian.yaml
//
//	# Validate configuration and biome rules without starting
//	gaian validate
//
//	# List archived audit entries
//	gaian audit list --buyer acme-labs
//
//	# Show version information
//	gaian version
package main

func main() {
	Execute()
}
