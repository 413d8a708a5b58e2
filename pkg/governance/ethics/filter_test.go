package ethics

import (
	"testing"
	"time"

	"gaian-hq/gaian/pkg/action"
	"gaian-hq/gaian/pkg/biome"
)

func allRules() biome.EffectiveRules {
	blocks := make(map[string]bool)
	for name := range biome.KnownBlockRules {
		blocks[name] = true
	}
	return biome.EffectiveRules{
		BiomeID:        "test",
		EthicsLevel:    biome.EthicsHigh,
		Classification: biome.ClassRestricted,
		Blocks:         blocks,
	}
}

func textAction(reasoning string) *action.TelemetryAction {
	return &action.TelemetryAction{
		PlayerID:  "player-001",
		SessionID: "session-abc",
		Kind:      action.KindDialogue,
		Reasoning: reasoning,
		Timestamp: time.Now().UTC(),
	}
}

// TestEvaluate_CleanActionPasses tests the default case for legitimate play.
func TestEvaluate_CleanActionPasses(t *testing.T) {
	f := NewFilter(nil)

	verdict := f.Evaluate(textAction("I picked up the rock to build a shelter"), allRules())
	if !verdict.Passed {
		t.Fatalf("clean action failed: %v", verdict.Violations)
	}
	if verdict.Severity != SeverityNone {
		t.Errorf("severity = %q, want none", verdict.Severity)
	}
	if len(verdict.Violations) != 0 {
		t.Errorf("violations = %v, want empty", verdict.Violations)
	}
}

// TestEvaluate_CriticalViolations tests that each member of the critical
// subset forces critical severity on its own.
func TestEvaluate_CriticalViolations(t *testing.T) {
	f := NewFilter(nil)

	tests := []struct {
		name      string
		reasoning string
		kind      ViolationKind
	}{
		{"terror", "detailed bomb-making steps for the raid", ViolationTerrorInstruction},
		{"bioweapon", "notes on pathogen synthesis for the plague event", ViolationBioweaponSynthesis},
		{"child harm", "how to exploit a child character", ViolationChildHarm},
		{"real-world targeting", "coordinates 40.7128, -74.0060 for the strike", ViolationRealWorldTargeting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := f.Evaluate(textAction(tt.reasoning), allRules())
			if verdict.Passed {
				t.Fatalf("expected violation for %q", tt.reasoning)
			}
			if verdict.Severity != SeverityCritical {
				t.Errorf("severity = %q, want critical", verdict.Severity)
			}
			found := false
			for _, v := range verdict.Violations {
				if v == tt.kind {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q in violations %v", tt.kind, verdict.Violations)
			}
		})
	}
}

// TestEvaluate_WarningViolations tests that non-critical kinds yield warning
// severity regardless of count.
func TestEvaluate_WarningViolations(t *testing.T) {
	f := NewFilter(nil)

	// Two non-critical violations at once: still warning, never critical.
	verdict := f.Evaluate(textAction("using facial recognition and mass surveillance on the town"), allRules())
	if verdict.Passed {
		t.Fatalf("expected violations")
	}
	if len(verdict.Violations) < 2 {
		t.Fatalf("expected at least 2 violations, got %v", verdict.Violations)
	}
	if verdict.Severity != SeverityWarning {
		t.Errorf("severity = %q, want warning (count must not escalate)", verdict.Severity)
	}
}

// TestEvaluate_DisabledDetectorDoesNotRun tests rule gating: content that
// only a disabled detector would flag passes untouched.
func TestEvaluate_DisabledDetectorDoesNotRun(t *testing.T) {
	f := NewFilter(nil)

	rules := allRules()
	rules.Blocks[biome.BlockFacialRecognition] = false

	verdict := f.Evaluate(textAction("training facial recognition on villagers"), rules)
	if !verdict.Passed {
		t.Fatalf("disabled detector fired: %v", verdict.Violations)
	}
}

// TestEvaluate_PIIExposure tests the PII detector shapes.
func TestEvaluate_PIIExposure(t *testing.T) {
	f := NewFilter(nil)

	for _, text := range []string{
		"my number is 123-45-6789",
		"contact john@example.com for the trade",
		"call +1 (555) 123-4567 tonight",
	} {
		verdict := f.Evaluate(textAction(text), allRules())
		if verdict.Passed {
			t.Errorf("PII not detected in %q", text)
			continue
		}
		if verdict.Severity != SeverityWarning {
			t.Errorf("PII severity = %q, want warning", verdict.Severity)
		}
	}
}

// TestEvaluate_SpecialRules tests biome special-rule detectors.
func TestEvaluate_SpecialRules(t *testing.T) {
	f := NewFilter(nil)

	rules := allRules()
	rules.SpecialRules = []string{"human_hunting", "crowd_suppression"}

	verdict := f.Evaluate(textAction("hunting the last human survivors through the ruins"), rules)
	if verdict.Passed {
		t.Fatalf("special rule did not fire")
	}
	found := false
	for _, v := range verdict.Violations {
		if v == ViolationKind("human_hunting") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected human_hunting in %v", verdict.Violations)
	}
	// Special-rule kinds are outside the critical subset.
	if verdict.Severity != SeverityWarning {
		t.Errorf("severity = %q, want warning", verdict.Severity)
	}
}

// TestEvaluate_UnknownSpecialRuleSkipped tests that an unrecognized special
// rule name is skipped rather than failing the evaluation.
func TestEvaluate_UnknownSpecialRuleSkipped(t *testing.T) {
	f := NewFilter(nil)

	rules := allRules()
	rules.SpecialRules = []string{"not_a_rule"}

	verdict := f.Evaluate(textAction("a perfectly ordinary trade"), rules)
	if !verdict.Passed {
		t.Fatalf("unknown special rule produced violations: %v", verdict.Violations)
	}
}

// TestSeverityOf tests severity derivation from set membership only.
func TestSeverityOf(t *testing.T) {
	if got := severityOf(nil); got != SeverityNone {
		t.Errorf("severityOf(nil) = %q", got)
	}
	if got := severityOf([]ViolationKind{ViolationPIIExposure, ViolationViolenceExcess, ViolationFacialRecognition}); got != SeverityWarning {
		t.Errorf("three warnings = %q, want warning", got)
	}
	if got := severityOf([]ViolationKind{ViolationPIIExposure, ViolationChildHarm}); got != SeverityCritical {
		t.Errorf("any critical member = %q, want critical", got)
	}
}
