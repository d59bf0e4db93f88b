package domain

import "errors"

var (
	// ErrValidation rejects a malformed dispatch request as a whole.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound marks a missing destination when auto-creation is disabled.
	ErrNotFound = errors.New("destination not found")

	// ErrUpstream wraps a non-success response from the record store or the
	// messaging platform.
	ErrUpstream = errors.New("upstream error")

	// ErrRaceLost is informational: the idempotency check found a prior
	// winner and the click was resolved as a deactivate-all.
	ErrRaceLost = errors.New("order already won")

	// ErrAlreadyProcessing is informational: another confirm click for the
	// same order is in flight in this process.
	ErrAlreadyProcessing = errors.New("order confirmation already in progress")

	// ErrDecodeToken marks a click token that failed field-count or numeric
	// validation.
	ErrDecodeToken = errors.New("malformed click token")
)
