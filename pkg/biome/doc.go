// Package biome defines per-content-area governance rule sets and the
// tightening-only composition of biome rules with global rules.
//
// # Rule Composition
//
// A biome can only add restrictions on top of the global rules, never remove
// them. Composition is pure and order-independent:
//
//   - Boolean "block_*" rules compose with OR: a rule is effective if it is
//     enabled in either the global or the biome configuration.
//   - Numeric thresholds compose toward the stricter value. Which direction
//     is "stricter" is declared per threshold at registration time (see
//     thresholdDirections): min for "maximum allowed" style thresholds and
//     for review triggers (a lower trigger reviews more), max for "minimum
//     required" style thresholds.
//   - The effective ethics level and classification never resolve below the
//     global defaults.
//
// Biome configurations that attempt to loosen a global rule are rejected when
// the registry is loaded, not at evaluation time.
//
// # Critical Biomes
//
// A biome tagged critical (for example the conflict-themed Uprising area) has
// its ethics level and classification hard-pinned to maximum and CRITICAL at
// construction time, regardless of supplied configuration.
package biome
