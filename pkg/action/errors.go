package action

import "errors"

// ErrInvalidAction indicates a malformed or incomplete telemetry action.
// Input errors are surfaced to the caller immediately and never defaulted.
var ErrInvalidAction = errors.New("invalid telemetry action")
