package export

import "errors"

var (
	// ErrInvalidRequest indicates a malformed export request. Input errors
	// are surfaced to the caller, never defaulted.
	ErrInvalidRequest = errors.New("invalid export request")

	// ErrInvalidBuyerConfig indicates a malformed buyer entry in the
	// authorized-buyer configuration.
	ErrInvalidBuyerConfig = errors.New("invalid buyer configuration")
)
