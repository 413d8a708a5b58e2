package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any rules fail. Validation happens at startup;
// invariant violations here must never survive to evaluation time.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateRules(&cfg.Rules)...)
	errs = append(errs, validateGovernance(&cfg.Governance)...)
	errs = append(errs, validateExports(&cfg.Exports)...)
	errs = append(errs, validateSink(&cfg.Sink)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(server *ServerConfig) []FieldError {
	var errs []FieldError

	if server.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if server.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "must not be negative",
		})
	}
	if server.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "must not be negative",
		})
	}
	if server.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateRules(rules *RulesConfig) []FieldError {
	var errs []FieldError

	if rules.Path == "" {
		errs = append(errs, FieldError{
			Field:   "rules.path",
			Message: "rules file path is required",
		})
	}

	return errs
}

func validateGovernance(gov *GovernanceConfig) []FieldError {
	var errs []FieldError

	ac := &gov.AntiCheat
	if ac.MaxVelocityDeviation < 0 {
		errs = append(errs, FieldError{
			Field:   "governance.anti_cheat.max_velocity_deviation",
			Message: "must not be negative",
		})
	}
	if ac.RequiredInputEntropy < 0 || ac.RequiredInputEntropy > 1 {
		errs = append(errs, FieldError{
			Field:   "governance.anti_cheat.required_input_entropy",
			Message: "must be between 0 and 1",
		})
	}
	if ac.MaxSequenceRepetition < 0 || ac.MaxSequenceRepetition > 1 {
		errs = append(errs, FieldError{
			Field:   "governance.anti_cheat.max_sequence_repetition",
			Message: "must be between 0 and 1",
		})
	}
	if ac.MinSessionDuration > ac.MaxSessionDuration && ac.MaxSessionDuration > 0 {
		errs = append(errs, FieldError{
			Field:   "governance.anti_cheat.min_session_duration",
			Message: "must not exceed max_session_duration",
		})
	}

	nv := &gov.Novelty
	if nv.BaselineTokens <= 0 {
		errs = append(errs, FieldError{
			Field:   "governance.novelty.baseline_tokens",
			Message: "must be positive",
		})
	}
	if nv.Diminishing.DecayRate <= 0 || nv.Diminishing.DecayRate > 1 {
		errs = append(errs, FieldError{
			Field:   "governance.novelty.diminishing_returns.decay_rate",
			Message: "must be in (0, 1]",
		})
	}
	if nv.Diminishing.Floor <= 0 || nv.Diminishing.Floor > 1 {
		errs = append(errs, FieldError{
			Field:   "governance.novelty.diminishing_returns.floor",
			Message: "must be in (0, 1]",
		})
	}
	if nv.Diminishing.Threshold < 0 {
		errs = append(errs, FieldError{
			Field:   "governance.novelty.diminishing_returns.threshold",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateExports(exports *ExportsConfig) []FieldError {
	var errs []FieldError

	if exports.MaxBatchSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "exports.max_batch_size",
			Message: "must be positive",
		})
	}
	if exports.RequireHumanReviewAbove <= 0 {
		errs = append(errs, FieldError{
			Field:   "exports.require_human_review_above",
			Message: "must be positive",
		})
	}
	if exports.RequireHumanReviewAbove > exports.MaxBatchSize {
		errs = append(errs, FieldError{
			Field:   "exports.require_human_review_above",
			Message: "must not exceed max_batch_size",
		})
	}
	if len(exports.AllowedBuyers) > 0 && exports.BuyersPath != "" {
		errs = append(errs, FieldError{
			Field:   "exports.buyers_path",
			Message: "allowed_buyers and buyers_path are mutually exclusive",
		})
	}

	audit := &exports.Audit
	if audit.Backend != "memory" && audit.Backend != "sqlite" {
		errs = append(errs, FieldError{
			Field:   "exports.audit.backend",
			Message: fmt.Sprintf("unknown backend %q (must be memory or sqlite)", audit.Backend),
		})
	}
	if audit.Backend == "sqlite" && audit.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "exports.audit.sqlite_path",
			Message: "required for the sqlite backend",
		})
	}
	if audit.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "exports.audit.retention_days",
			Message: "must not be negative",
		})
	}
	if audit.PruneSchedule != "" {
		if _, err := cron.ParseStandard(audit.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "exports.audit.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateSink(sink *SinkConfig) []FieldError {
	var errs []FieldError

	if sink.Backend != "memory" && sink.Backend != "sqlite" {
		errs = append(errs, FieldError{
			Field:   "sink.backend",
			Message: fmt.Sprintf("unknown backend %q (must be memory or sqlite)", sink.Backend),
		})
	}
	if sink.Backend == "sqlite" && sink.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "sink.sqlite_path",
			Message: "required for the sqlite backend",
		})
	}

	return errs
}

func validateTelemetry(telemetry *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (must be debug, info, warn, or error)", telemetry.Logging.Level),
		})
	}

	switch telemetry.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (must be json or text)", telemetry.Logging.Format),
		})
	}

	if telemetry.Metrics.Enabled && telemetry.Metrics.Path == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "required when metrics are enabled",
		})
	}

	return errs
}
