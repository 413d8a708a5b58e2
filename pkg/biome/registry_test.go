package biome

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testRegistryConfig() RegistryConfig {
	return RegistryConfig{
		Global: testGlobal(),
		Biomes: []RuleSet{
			{ID: "meadow", NoveltyWeight: 1.0},
			{ID: "uprising", Critical: true, NoveltyWeight: 2.0, SpecialRules: []string{"human_hunting", "crowd_suppression"}},
		},
	}
}

// TestNewRegistry_GetKnownBiome tests lookup of a configured biome.
func TestNewRegistry_GetKnownBiome(t *testing.T) {
	r, err := NewRegistry(testRegistryConfig())
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}

	eff := r.Get("uprising")
	if eff.BiomeID != "uprising" {
		t.Errorf("BiomeID = %q, want %q", eff.BiomeID, "uprising")
	}
	if eff.EthicsLevel != EthicsMaximum {
		t.Errorf("uprising ethics level = %q, want maximum", eff.EthicsLevel)
	}
	if eff.Classification != ClassCritical {
		t.Errorf("uprising classification = %q, want CRITICAL", eff.Classification)
	}
	if len(eff.SpecialRules) != 2 {
		t.Errorf("special rules = %v", eff.SpecialRules)
	}
}

// TestNewRegistry_UnknownBiomeFallsBack tests that unknown biome ids resolve
// to the default (global-only) rule set rather than failing.
func TestNewRegistry_UnknownBiomeFallsBack(t *testing.T) {
	r, err := NewRegistry(testRegistryConfig())
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}

	eff := r.Get("never-configured")
	if eff.BiomeID != DefaultBiomeID {
		t.Errorf("fallback BiomeID = %q, want %q", eff.BiomeID, DefaultBiomeID)
	}
	if !eff.BlockEnabled(BlockTerrorInstruction) {
		t.Errorf("fallback lost global block")
	}
	if r.Known("never-configured") {
		t.Errorf("Known() reported true for unconfigured biome")
	}
}

// TestNewRegistry_RejectsLooseningAtLoad tests that the tightening invariant
// is enforced at registry load time.
func TestNewRegistry_RejectsLooseningAtLoad(t *testing.T) {
	cfg := testRegistryConfig()
	cfg.Biomes = append(cfg.Biomes, RuleSet{
		ID:     "rogue",
		Blocks: map[string]bool{BlockTerrorInstruction: false},
	})

	_, err := NewRegistry(cfg)
	if !errors.Is(err, ErrLoosensGlobalRule) {
		t.Fatalf("expected ErrLoosensGlobalRule, got %v", err)
	}
}

// TestNewRegistry_RejectsDuplicateIDs tests duplicate biome id rejection.
func TestNewRegistry_RejectsDuplicateIDs(t *testing.T) {
	cfg := testRegistryConfig()
	cfg.Biomes = append(cfg.Biomes, RuleSet{ID: "meadow"})

	_, err := NewRegistry(cfg)
	if !errors.Is(err, ErrInvalidRuleSet) {
		t.Fatalf("expected ErrInvalidRuleSet for duplicate id, got %v", err)
	}
}

// TestLoadRegistry_FromYAML tests loading a registry from a YAML file.
func TestLoadRegistry_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	data := []byte(`
global:
  ethics_level: normal
  classification: STANDARD
  blocks:
    block_terror_instruction: true
    block_child_harm: true
  thresholds:
    human_review_above: 1000
biomes:
  - id: meadow
    novelty_weight: 1.5
  - id: uprising
    critical: true
    novelty_weight: 2.0
    thresholds:
      human_review_above: 10
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	r, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry() failed: %v", err)
	}

	eff := r.Get("meadow")
	if eff.NoveltyWeight != 1.5 {
		t.Errorf("meadow novelty weight = %v, want 1.5", eff.NoveltyWeight)
	}

	eff = r.Get("uprising")
	if got := eff.Threshold(ThresholdHumanReviewAbove, -1); got != 10 {
		t.Errorf("uprising review threshold = %v, want 10", got)
	}
}

// TestProvider_Replace tests atomic registry replacement.
func TestProvider_Replace(t *testing.T) {
	r1, err := NewRegistry(testRegistryConfig())
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	p := NewProvider(r1)

	cfg := testRegistryConfig()
	cfg.Biomes = append(cfg.Biomes, RuleSet{ID: "theater"})
	r2, err := NewRegistry(cfg)
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}

	if p.Registry().Known("theater") {
		t.Fatalf("theater known before replacement")
	}
	p.Replace(r2)
	if !p.Registry().Known("theater") {
		t.Fatalf("theater unknown after replacement")
	}
}
