package ethics

import (
	"regexp"
	"strings"

	"gaian-hq/gaian/pkg/action"
	"gaian-hq/gaian/pkg/biome"
)

// detectFunc inspects one red-line category. It returns whether the detector
// fired and an optional diagnostic detail.
type detectFunc func(a *action.TelemetryAction) (bool, string)

// detector couples a violation kind with the boolean rule that gates it and
// the detection function. The battery is a fixed ordered list; verdict
// violations are reported in battery order.
type detector struct {
	kind ViolationKind
	gate string
	fn   detectFunc
}

// battery is the fixed red-line detector battery. A detector only runs when
// its gate rule is enabled in the effective rules for the action's biome.
var battery = []detector{
	{ViolationTerrorInstruction, biome.BlockTerrorInstruction, matchText(terrorPattern)},
	{ViolationBioweaponSynthesis, biome.BlockBioweaponSynthesis, matchText(bioweaponPattern)},
	{ViolationChildHarm, biome.BlockChildHarm, matchText(childHarmPattern)},
	{ViolationRealWorldTargeting, biome.BlockRealWorldTargeting, detectRealWorldTargeting},
	{ViolationFacialRecognition, biome.BlockFacialRecognition, matchText(facialPattern)},
	{ViolationWeaponManufacturing, biome.BlockWeaponManufacturing, matchText(weaponPattern)},
	{ViolationSurveillanceEnhancement, biome.BlockSurveillanceEnhancement, matchText(surveillancePattern)},
	{ViolationViolenceExcess, biome.BlockViolenceExcess, matchText(violencePattern)},
	{ViolationPIIExposure, biome.BlockPIIExposure, detectPII},
}

// Content matching is deliberately heuristic pattern matching over the
// action's free text; NLP-grade classification is a pluggable capability
// behind this battery, not part of it.
var (
	terrorPattern = regexp.MustCompile(`(?i)\b(bomb[- ]?making|improvised explosive|detonator assembly|attack planning|mass casualt)`)

	bioweaponPattern = regexp.MustCompile(`(?i)\b(pathogen (synthesis|culture)|weaponi[sz]ed? (virus|agent|pathogen)|aerosoli[sz]e|toxin production)`)

	childHarmPattern = regexp.MustCompile(`(?i)\b(child|minor)\b.*\b(harm|abuse|exploit|groom)|\b(harm|abuse|exploit|groom)\w*\b.*\b(child|minor)\b`)

	coordinatePattern = regexp.MustCompile(`\b-?\d{1,3}\.\d{3,}\s*,\s*-?\d{1,3}\.\d{3,}\b`)
	addressPattern    = regexp.MustCompile(`(?i)\b\d+\s+\w+\s+(street|st|avenue|ave|road|rd|boulevard|blvd)\b`)
	realTargetPattern = regexp.MustCompile(`(?i)\b(real[- ]world target|actual (person|location|address))\b`)

	facialPattern = regexp.MustCompile(`(?i)\b(facial recognition|face (database|matching)|biometric identification)\b`)

	weaponPattern = regexp.MustCompile(`(?i)\b(3d[- ]?print(ed)? (gun|firearm)|firearm blueprint|firing pin|homemade (gun|firearm|weapon))\b`)

	surveillancePattern = regexp.MustCompile(`(?i)\b(mass surveillance|wiretap|stalkerware|movement tracking|location harvesting)\b`)

	violencePattern = regexp.MustCompile(`(?i)\b(torture|dismember|mutilat|gore detail)`)

	// PII patterns follow the logging redactor's shapes.
	ssnPattern   = regexp.MustCompile(`\b\d{3}[-\s]?\d{2}[-\s]?\d{4}\b`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\b\+?\d{1,2}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

// actionText flattens the scannable free text of an action.
func actionText(a *action.TelemetryAction) string {
	return strings.TrimSpace(a.Reasoning + " " + a.Target)
}

// matchText builds a detector from a single compiled pattern.
func matchText(re *regexp.Regexp) detectFunc {
	return func(a *action.TelemetryAction) (bool, string) {
		text := actionText(a)
		if text == "" {
			return false, ""
		}
		if m := re.FindString(text); m != "" {
			return true, "matched " + strings.ToLower(m)
		}
		return false, ""
	}
}

// detectRealWorldTargeting fires on explicit real-world target language or
// real coordinates and street addresses embedded in game telemetry.
func detectRealWorldTargeting(a *action.TelemetryAction) (bool, string) {
	text := actionText(a)
	if text == "" {
		return false, ""
	}
	if realTargetPattern.MatchString(text) {
		return true, "real-world target language"
	}
	if coordinatePattern.MatchString(text) {
		return true, "geographic coordinates"
	}
	if addressPattern.MatchString(text) {
		return true, "street address"
	}
	return false, ""
}

// detectPII fires on identifiers that must never ride along in telemetry.
func detectPII(a *action.TelemetryAction) (bool, string) {
	text := actionText(a)
	if text == "" {
		return false, ""
	}
	switch {
	case ssnPattern.MatchString(text):
		return true, "ssn-shaped identifier"
	case emailPattern.MatchString(text):
		return true, "email address"
	case phonePattern.MatchString(text):
		return true, "phone number"
	}
	return false, ""
}

// Biome special-rule detectors, keyed by the special rule name carried in
// the biome's rule set. These run after the core battery for biomes that
// declare them (the CRITICAL conflict biome declares all four).
var specialDetectors = map[string]detectFunc{
	"human_hunting":        matchText(regexp.MustCompile(`(?i)\b(hunt(ing)?|stalk(ing)?|track(ing)?)\b.*\b(human|civilian|villager|survivor)s?\b`)),
	"crowd_suppression":    matchText(regexp.MustCompile(`(?i)\b(crowd (control|dispersal|suppression)|kettling|induce panic|funnel the crowd)\b`)),
	"offensive_posture":    matchText(regexp.MustCompile(`(?i)\b(first strike|pre-?emptive (attack|strike)|ambush setup)\b`)),
	"individual_targeting": matchText(regexp.MustCompile(`(?i)\b(target(ing)? (a|the|this) (specific|individual)|single out|biometric profile)\b`)),
}
