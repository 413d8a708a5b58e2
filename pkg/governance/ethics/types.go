package ethics

// ViolationKind identifies a category of ethics violation. The core kinds
// below are fixed; biome special rules contribute additional kinds (for
// example "human_hunting" in the Uprising biome).
type ViolationKind string

const (
	ViolationTerrorInstruction       ViolationKind = "terror_instruction"
	ViolationBioweaponSynthesis      ViolationKind = "bioweapon_synthesis"
	ViolationChildHarm               ViolationKind = "child_harm"
	ViolationRealWorldTargeting      ViolationKind = "real_world_targeting"
	ViolationFacialRecognition       ViolationKind = "facial_recognition"
	ViolationWeaponManufacturing     ViolationKind = "weapon_manufacturing"
	ViolationSurveillanceEnhancement ViolationKind = "surveillance_enhancement"
	ViolationViolenceExcess          ViolationKind = "violence_excess"
	ViolationPIIExposure             ViolationKind = "pii_exposure"
)

// Severity classifies the overall seriousness of a verdict.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// criticalViolations is the fixed subset of violation kinds that force
// critical severity. Membership in this set is the only severity input;
// count never matters.
var criticalViolations = map[ViolationKind]bool{
	ViolationTerrorInstruction:  true,
	ViolationBioweaponSynthesis: true,
	ViolationChildHarm:          true,
	ViolationRealWorldTargeting: true,
}

// Verdict is the result of an ethics evaluation.
type Verdict struct {
	// Passed is true iff no detector fired.
	Passed bool `json:"passed"`

	// Violations lists fired detectors in battery order.
	Violations []ViolationKind `json:"violations"`

	// Severity is none, warning, or critical.
	Severity Severity `json:"severity"`

	// Details carries per-detector diagnostics for reviewers.
	Details map[string]any `json:"details,omitempty"`
}

// severityOf derives the verdict severity from the violation set.
func severityOf(violations []ViolationKind) Severity {
	if len(violations) == 0 {
		return SeverityNone
	}
	for _, v := range violations {
		if criticalViolations[v] {
			return SeverityCritical
		}
	}
	return SeverityWarning
}
