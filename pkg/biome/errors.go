package biome

import "errors"

var (
	// ErrInvalidRuleSet indicates a malformed biome rule set configuration.
	ErrInvalidRuleSet = errors.New("invalid biome rule set")

	// ErrLoosensGlobalRule indicates a biome configuration attempting to
	// disable a rule that the global configuration enables. Rejected at
	// registry load time.
	ErrLoosensGlobalRule = errors.New("biome rule set loosens a global rule")

	// ErrInvalidGlobalRules indicates malformed global rule configuration.
	ErrInvalidGlobalRules = errors.New("invalid global rules")
)
