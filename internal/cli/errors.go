package cli

import (
	"errors"

	"github.com/aidanlsb/dfac/internal/config"
	"github.com/aidanlsb/dfac/internal/console"
	"github.com/aidanlsb/dfac/internal/flow"
	"github.com/aidanlsb/dfac/internal/registry"
)

// Error codes for structured error responses. These are stable and can
// be relied upon by scripts and agents.
const (
	ErrConfigInvalid  = "CONFIG_INVALID"
	ErrAuthFailed     = "AUTH_FAILED"
	ErrFetchFailed    = "FETCH_FAILED"
	ErrPushFailed     = "PUSH_FAILED"
	ErrIntegrityError = "INTEGRITY_ERROR"
	ErrUnknownApp     = "UNKNOWN_APP"
	ErrInternal       = "INTERNAL_ERROR"
)

// errorCode maps an error to its stable code. The fallback op string
// ("fetch" or "push") decides how console API failures that are not
// auth-related are classified.
func errorCode(err error, fallbackOp string) string {
	if errors.Is(err, config.ErrMissingCredentials) {
		return ErrConfigInvalid
	}

	var unknown *registry.UnknownAppError
	if errors.As(err, &unknown) {
		return ErrUnknownApp
	}

	var broken *flow.BrokenRefError
	var dup *flow.DuplicateTitleError
	var missing *flow.MissingFieldError
	if errors.As(err, &broken) || errors.As(err, &dup) || errors.As(err, &missing) {
		return ErrIntegrityError
	}

	var apiErr *console.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsAuth() {
			return ErrAuthFailed
		}
		if fallbackOp == "push" {
			return ErrPushFailed
		}
		return ErrFetchFailed
	}

	return ErrInternal
}
