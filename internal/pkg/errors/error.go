package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal server error")
	ErrRateLimited  = errors.New("too many requests")
	ErrBadRequest   = errors.New("bad request")

	// Case and flow errors
	ErrCaseNotFound        = errors.New("case not found or expired")
	ErrStoreNotInitialized = errors.New("case state store not initialized")
	ErrWrongFlow           = errors.New("action does not match the active customer type")
	ErrInvalidAction       = errors.New("action not allowed in the current step")
	ErrBackendUnavailable  = errors.New("backend call failed")
	ErrStrongAuthRequired  = errors.New("strong authentication required")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
