package ethics

import (
	"log/slog"

	"gaian-hq/gaian/pkg/action"
	"gaian-hq/gaian/pkg/biome"
)

// Filter evaluates actions against the red-line detector battery. It holds
// no per-player state and is safe for unlimited concurrent use.
type Filter struct {
	logger *slog.Logger
}

// NewFilter creates an ethics filter.
func NewFilter(logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{logger: logger.With("component", "ethics")}
}

// Evaluate runs every enabled detector against the action. Detectors whose
// gate rule is disabled in the effective rules do not run at all. The
// default, expected outcome for legitimate play is a passing verdict with an
// empty violation set and severity none.
func (f *Filter) Evaluate(a *action.TelemetryAction, rules biome.EffectiveRules) Verdict {
	var violations []ViolationKind
	details := make(map[string]any)

	for _, d := range battery {
		if !rules.BlockEnabled(d.gate) {
			continue
		}
		fired, detail := f.runDetector(string(d.kind), d.fn, a)
		if fired {
			violations = append(violations, d.kind)
			if detail != "" {
				details[string(d.kind)] = detail
			}
		}
	}

	for _, name := range rules.SpecialRules {
		fn, ok := specialDetectors[name]
		if !ok {
			f.logger.Warn("unknown special rule, skipping",
				"biome_id", rules.BiomeID,
				"rule", name,
			)
			continue
		}
		fired, detail := f.runDetector(name, fn, a)
		if fired {
			violations = append(violations, ViolationKind(name))
			if detail != "" {
				details[name] = detail
			}
		}
	}

	if len(violations) == 0 {
		return Verdict{Passed: true, Severity: SeverityNone}
	}

	severity := severityOf(violations)
	f.logger.Info("ethics violations detected",
		"biome_id", rules.BiomeID,
		"violations", violations,
		"severity", string(severity),
	)

	return Verdict{
		Passed:     false,
		Violations: violations,
		Severity:   severity,
		Details:    details,
	}
}

// runDetector executes one detector, recovering panics as "did not fire".
// A broken detector yields no evidence; it must never take the pipeline down.
func (f *Filter) runDetector(name string, fn detectFunc, a *action.TelemetryAction) (fired bool, detail string) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("detector panicked, treating as no evidence",
				"detector", name,
				"panic", r,
			)
			fired = false
			detail = ""
		}
	}()
	return fn(a)
}
