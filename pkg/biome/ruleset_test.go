package biome

import (
	"errors"
	"testing"
)

func testGlobal() GlobalRules {
	return GlobalRules{
		EthicsLevel:    EthicsNormal,
		Classification: ClassStandard,
		Blocks: map[string]bool{
			BlockTerrorInstruction:  true,
			BlockBioweaponSynthesis: true,
			BlockChildHarm:          true,
			BlockRealWorldTargeting: true,
		},
		Thresholds: map[string]float64{
			ThresholdHumanReviewAbove: 1000,
		},
	}
}

// TestCompose_BlocksAreSuperset tests the core tightening invariant: every
// block enabled globally stays enabled in the composed rules, for any biome.
func TestCompose_BlocksAreSuperset(t *testing.T) {
	global := testGlobal()

	biomes := []RuleSet{
		NewRuleSet(RuleSet{ID: "meadow"}),
		NewRuleSet(RuleSet{ID: "city", Blocks: map[string]bool{BlockFacialRecognition: true}}),
		NewRuleSet(RuleSet{ID: "uprising", Critical: true, Blocks: map[string]bool{
			BlockFacialRecognition:       true,
			BlockSurveillanceEnhancement: true,
			BlockViolenceExcess:          true,
		}}),
	}

	for _, rs := range biomes {
		eff := Compose(global, rs)
		for name, enabled := range global.Blocks {
			if enabled && !eff.BlockEnabled(name) {
				t.Errorf("biome %q: global block %q lost in composition", rs.ID, name)
			}
		}
	}
}

// TestCompose_BiomeAddsBlocks tests that biome-enabled blocks take effect.
func TestCompose_BiomeAddsBlocks(t *testing.T) {
	global := testGlobal()
	rs := NewRuleSet(RuleSet{ID: "city", Blocks: map[string]bool{BlockFacialRecognition: true}})

	eff := Compose(global, rs)
	if !eff.BlockEnabled(BlockFacialRecognition) {
		t.Errorf("biome block not effective after composition")
	}
	if eff.BlockEnabled(BlockSurveillanceEnhancement) {
		t.Errorf("block enabled that neither global nor biome set")
	}
}

// TestCompose_EthicsLevelNeverWeakens tests that the effective ethics level
// never resolves below the global floor.
func TestCompose_EthicsLevelNeverWeakens(t *testing.T) {
	global := testGlobal()
	global.EthicsLevel = EthicsHigh

	rs := NewRuleSet(RuleSet{ID: "meadow", EthicsLevel: EthicsNormal})
	eff := Compose(global, rs)
	if eff.EthicsLevel != EthicsHigh {
		t.Errorf("effective ethics level %q weaker than global %q", eff.EthicsLevel, EthicsHigh)
	}

	rs = NewRuleSet(RuleSet{ID: "lab", EthicsLevel: EthicsMaximum})
	eff = Compose(global, rs)
	if eff.EthicsLevel != EthicsMaximum {
		t.Errorf("stricter biome ethics level lost: got %q", eff.EthicsLevel)
	}
}

// TestCompose_ClassificationNeverWeakens tests the classification floor.
func TestCompose_ClassificationNeverWeakens(t *testing.T) {
	global := testGlobal()
	global.Classification = ClassRestricted

	eff := Compose(global, NewRuleSet(RuleSet{ID: "meadow", Classification: ClassStandard}))
	if eff.Classification != ClassRestricted {
		t.Errorf("effective classification %q weaker than global %q", eff.Classification, ClassRestricted)
	}
}

// TestCompose_ReviewThresholdUsesMin tests that human_review_above composes
// with min: a lower trigger is the stricter choice.
func TestCompose_ReviewThresholdUsesMin(t *testing.T) {
	global := testGlobal()

	eff := Compose(global, NewRuleSet(RuleSet{
		ID:         "uprising",
		Thresholds: map[string]float64{ThresholdHumanReviewAbove: 10},
	}))
	if got := eff.Threshold(ThresholdHumanReviewAbove, -1); got != 10 {
		t.Errorf("expected threshold 10, got %v", got)
	}

	// A looser biome value must not win.
	eff = Compose(global, NewRuleSet(RuleSet{
		ID:         "meadow",
		Thresholds: map[string]float64{ThresholdHumanReviewAbove: 50000},
	}))
	if got := eff.Threshold(ThresholdHumanReviewAbove, -1); got != 1000 {
		t.Errorf("expected global threshold 1000 to win, got %v", got)
	}
}

// TestNewRuleSet_CriticalPinning tests the construction-time override: a
// critical biome is pinned to maximum scrutiny regardless of configuration.
func TestNewRuleSet_CriticalPinning(t *testing.T) {
	rs := NewRuleSet(RuleSet{
		ID:             "uprising",
		Critical:       true,
		EthicsLevel:    EthicsNormal,
		Classification: ClassStandard,
	})

	if rs.EthicsLevel != EthicsMaximum {
		t.Errorf("critical biome ethics level = %q, want %q", rs.EthicsLevel, EthicsMaximum)
	}
	if rs.Classification != ClassCritical {
		t.Errorf("critical biome classification = %q, want %q", rs.Classification, ClassCritical)
	}
}

// TestNewRuleSet_Defaults tests zero-value defaulting.
func TestNewRuleSet_Defaults(t *testing.T) {
	rs := NewRuleSet(RuleSet{ID: "meadow"})
	if rs.EthicsLevel != EthicsNormal {
		t.Errorf("default ethics level = %q", rs.EthicsLevel)
	}
	if rs.Classification != ClassStandard {
		t.Errorf("default classification = %q", rs.Classification)
	}
	if rs.NoveltyWeight != 1.0 {
		t.Errorf("default novelty weight = %v", rs.NoveltyWeight)
	}
}

// TestValidateRuleSet_RejectsLoosening tests that a biome explicitly
// disabling a globally enabled block is rejected at load time.
func TestValidateRuleSet_RejectsLoosening(t *testing.T) {
	global := testGlobal()
	rs := NewRuleSet(RuleSet{
		ID:     "rogue",
		Blocks: map[string]bool{BlockChildHarm: false},
	})

	err := validateRuleSet(global, rs)
	if !errors.Is(err, ErrLoosensGlobalRule) {
		t.Fatalf("expected ErrLoosensGlobalRule, got %v", err)
	}
}

// TestValidateRuleSet_RejectsUnknownNames tests rejection of unknown rule and
// threshold names.
func TestValidateRuleSet_RejectsUnknownNames(t *testing.T) {
	global := testGlobal()

	err := validateRuleSet(global, NewRuleSet(RuleSet{
		ID:     "typo",
		Blocks: map[string]bool{"block_teror_instruction": true},
	}))
	if !errors.Is(err, ErrInvalidRuleSet) {
		t.Fatalf("expected ErrInvalidRuleSet for unknown rule, got %v", err)
	}

	err = validateRuleSet(global, NewRuleSet(RuleSet{
		ID:         "typo2",
		Thresholds: map[string]float64{"human_review_below": 5},
	}))
	if !errors.Is(err, ErrInvalidRuleSet) {
		t.Fatalf("expected ErrInvalidRuleSet for unregistered threshold, got %v", err)
	}
}
