package biome

import (
	"fmt"
	"sort"
)

// EthicsLevel is the ethics scrutiny level of a biome.
type EthicsLevel string

const (
	EthicsNormal   EthicsLevel = "normal"
	EthicsElevated EthicsLevel = "elevated"
	EthicsHigh     EthicsLevel = "high"
	EthicsMaximum  EthicsLevel = "maximum"
)

// ethicsRank orders ethics levels from weakest to strictest.
var ethicsRank = map[EthicsLevel]int{
	EthicsNormal:   0,
	EthicsElevated: 1,
	EthicsHigh:     2,
	EthicsMaximum:  3,
}

// Valid reports whether l is a known ethics level.
func (l EthicsLevel) Valid() bool {
	_, ok := ethicsRank[l]
	return ok
}

// stricterEthics returns the stricter of two ethics levels.
func stricterEthics(a, b EthicsLevel) EthicsLevel {
	if ethicsRank[a] >= ethicsRank[b] {
		return a
	}
	return b
}

// Classification is the data classification of a biome's telemetry.
type Classification string

const (
	ClassStandard   Classification = "STANDARD"
	ClassSensitive  Classification = "SENSITIVE"
	ClassRestricted Classification = "RESTRICTED"
	ClassCritical   Classification = "CRITICAL"
)

// classificationRank orders classifications from weakest to strictest.
var classificationRank = map[Classification]int{
	ClassStandard:   0,
	ClassSensitive:  1,
	ClassRestricted: 2,
	ClassCritical:   3,
}

// Valid reports whether c is a known classification.
func (c Classification) Valid() bool {
	_, ok := classificationRank[c]
	return ok
}

// stricterClassification returns the stricter of two classifications.
func stricterClassification(a, b Classification) Classification {
	if classificationRank[a] >= classificationRank[b] {
		return a
	}
	return b
}

// Boolean block rules understood by the ethics filter. A biome may enable any
// of these on top of the global set; it can never disable one.
const (
	BlockTerrorInstruction       = "block_terror_instruction"
	BlockBioweaponSynthesis      = "block_bioweapon_synthesis"
	BlockChildHarm               = "block_child_harm"
	BlockRealWorldTargeting      = "block_real_world_targeting"
	BlockFacialRecognition       = "block_facial_recognition"
	BlockWeaponManufacturing     = "block_weapon_manufacturing"
	BlockSurveillanceEnhancement = "block_surveillance_enhancement"
	BlockViolenceExcess          = "block_violence_excess"
	BlockPIIExposure             = "block_pii_exposure"
)

// KnownBlockRules is the closed set of boolean rule names. Registry loading
// rejects configurations that reference anything else.
var KnownBlockRules = map[string]bool{
	BlockTerrorInstruction:       true,
	BlockBioweaponSynthesis:      true,
	BlockChildHarm:               true,
	BlockRealWorldTargeting:      true,
	BlockFacialRecognition:       true,
	BlockWeaponManufacturing:     true,
	BlockSurveillanceEnhancement: true,
	BlockViolenceExcess:          true,
	BlockPIIExposure:             true,
}

// ThresholdHumanReviewAbove is the record count above which an export from
// the biome requires human review.
const ThresholdHumanReviewAbove = "human_review_above"

// Direction declares which way is "stricter" for a numeric threshold.
type Direction int

const (
	// StricterLower means the lower of two values is the stricter choice
	// ("maximum allowed" style thresholds and review triggers).
	StricterLower Direction = iota

	// StricterHigher means the higher of two values is the stricter choice
	// ("minimum required" style thresholds).
	StricterHigher
)

// thresholdDirections is the per-threshold strictness registration. Every
// configurable numeric threshold must appear here; composition of an
// unregistered threshold is a load-time configuration error.
//
//   - human_review_above: StricterLower. A lower trigger sends more exports
//     to review, so the minimum of global and biome values wins.
var thresholdDirections = map[string]Direction{
	ThresholdHumanReviewAbove: StricterLower,
}

// GlobalRules is the process-wide baseline that every biome composes against.
// It is loaded once at startup and read-only afterwards.
type GlobalRules struct {
	// EthicsLevel is the floor ethics level for all biomes.
	EthicsLevel EthicsLevel `yaml:"ethics_level"`

	// Classification is the floor classification for all biomes.
	Classification Classification `yaml:"classification"`

	// Blocks maps boolean rule names to enabled state.
	Blocks map[string]bool `yaml:"blocks"`

	// Thresholds maps registered threshold names to their global values.
	Thresholds map[string]float64 `yaml:"thresholds"`
}

// RuleSet is the immutable per-biome governance configuration.
type RuleSet struct {
	// ID is the biome identifier.
	ID string `yaml:"id"`

	// EthicsLevel is the biome's declared ethics level.
	EthicsLevel EthicsLevel `yaml:"ethics_level"`

	// Classification is the biome's declared data classification.
	Classification Classification `yaml:"classification"`

	// Critical hard-pins the biome to maximum scrutiny at construction time.
	Critical bool `yaml:"critical"`

	// Blocks are boolean rules the biome enables on top of the global set.
	Blocks map[string]bool `yaml:"blocks"`

	// Thresholds are numeric thresholds the biome tightens.
	Thresholds map[string]float64 `yaml:"thresholds"`

	// SpecialRules names biome-specific ethics detectors to run in addition
	// to the global battery (e.g. "human_hunting" in the Uprising biome).
	SpecialRules []string `yaml:"special_rules"`

	// NoveltyWeight scales novelty token rewards for this biome.
	NoveltyWeight float64 `yaml:"novelty_weight"`
}

// NewRuleSet builds a rule set from configuration, applying construction-time
// overrides. A critical biome is pinned to maximum ethics level and CRITICAL
// classification regardless of what the configuration supplied.
func NewRuleSet(cfg RuleSet) RuleSet {
	rs := cfg
	if rs.EthicsLevel == "" {
		rs.EthicsLevel = EthicsNormal
	}
	if rs.Classification == "" {
		rs.Classification = ClassStandard
	}
	if rs.NoveltyWeight == 0 {
		rs.NoveltyWeight = 1.0
	}
	if rs.Critical {
		rs.EthicsLevel = EthicsMaximum
		rs.Classification = ClassCritical
	}
	return rs
}

// EffectiveRules is the result of composing a biome rule set with the global
// rules. It is what the ethics filter and data gate actually consult.
type EffectiveRules struct {
	BiomeID        string
	EthicsLevel    EthicsLevel
	Classification Classification
	Blocks         map[string]bool
	Thresholds     map[string]float64
	SpecialRules   []string
	NoveltyWeight  float64
}

// BlockEnabled reports whether the named boolean rule is in effect.
func (e *EffectiveRules) BlockEnabled(name string) bool {
	return e.Blocks[name]
}

// Threshold returns the effective value of the named threshold, or the given
// fallback if it was never configured.
func (e *EffectiveRules) Threshold(name string, fallback float64) float64 {
	if v, ok := e.Thresholds[name]; ok {
		return v
	}
	return fallback
}

// Compose merges global and biome rules into the effective rule set. The
// merge only ever tightens: boolean rules OR together, thresholds move in
// their registered stricter direction, and ethics level and classification
// never resolve below the global floor.
func Compose(global GlobalRules, rs RuleSet) EffectiveRules {
	eff := EffectiveRules{
		BiomeID:        rs.ID,
		EthicsLevel:    stricterEthics(global.EthicsLevel, rs.EthicsLevel),
		Classification: stricterClassification(global.Classification, rs.Classification),
		Blocks:         make(map[string]bool, len(global.Blocks)+len(rs.Blocks)),
		Thresholds:     make(map[string]float64, len(global.Thresholds)+len(rs.Thresholds)),
		SpecialRules:   append([]string(nil), rs.SpecialRules...),
		NoveltyWeight:  rs.NoveltyWeight,
	}

	for name, enabled := range global.Blocks {
		if enabled {
			eff.Blocks[name] = true
		}
	}
	for name, enabled := range rs.Blocks {
		if enabled {
			eff.Blocks[name] = true
		}
	}

	for name, v := range global.Thresholds {
		eff.Thresholds[name] = v
	}
	for name, v := range rs.Thresholds {
		if gv, ok := eff.Thresholds[name]; ok {
			eff.Thresholds[name] = composeThreshold(name, gv, v)
		} else {
			eff.Thresholds[name] = v
		}
	}

	return eff
}

// composeThreshold picks the stricter of two threshold values according to
// the threshold's registered direction.
func composeThreshold(name string, global, biome float64) float64 {
	switch thresholdDirections[name] {
	case StricterHigher:
		if biome > global {
			return biome
		}
		return global
	default:
		if biome < global {
			return biome
		}
		return global
	}
}

// validateRuleSet checks a rule set against the global rules. It rejects
// references to unknown rule or threshold names and any attempt to loosen a
// global rule. Called at registry load time, never per request.
func validateRuleSet(global GlobalRules, rs RuleSet) error {
	if rs.ID == "" {
		return fmt.Errorf("%w: biome id is required", ErrInvalidRuleSet)
	}
	if !rs.EthicsLevel.Valid() {
		return fmt.Errorf("%w: biome %q: unknown ethics level %q", ErrInvalidRuleSet, rs.ID, rs.EthicsLevel)
	}
	if !rs.Classification.Valid() {
		return fmt.Errorf("%w: biome %q: unknown classification %q", ErrInvalidRuleSet, rs.ID, rs.Classification)
	}
	if rs.NoveltyWeight < 0 {
		return fmt.Errorf("%w: biome %q: novelty weight must be non-negative", ErrInvalidRuleSet, rs.ID)
	}

	names := make([]string, 0, len(rs.Blocks))
	for name := range rs.Blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !KnownBlockRules[name] {
			return fmt.Errorf("%w: biome %q: unknown rule %q", ErrInvalidRuleSet, rs.ID, name)
		}
		if !rs.Blocks[name] && global.Blocks[name] {
			return fmt.Errorf("%w: biome %q: rule %q cannot be loosened", ErrLoosensGlobalRule, rs.ID, name)
		}
	}

	for name, v := range rs.Thresholds {
		if _, ok := thresholdDirections[name]; !ok {
			return fmt.Errorf("%w: biome %q: unregistered threshold %q", ErrInvalidRuleSet, rs.ID, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: biome %q: threshold %q must be non-negative", ErrInvalidRuleSet, rs.ID, name)
		}
	}

	return nil
}
