package errors

import (
	"errors"
	"fmt"
)

// Common error types for the test-management client
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRefreshToken   = errors.New("no refresh token")
	ErrRefreshFailed    = errors.New("token refresh failed")
	ErrSealed           = errors.New("session storage is sealed with a different passphrase")

	// Backend response errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflict")
	ErrThrottled      = errors.New("too many requests")
	ErrServer         = errors.New("server error")

	// Tenant errors
	ErrNoTenant           = errors.New("no active tenant")
	ErrTenantSlugTaken    = errors.New("tenant slug already in use")
	ErrUnauthorizedTenant = errors.New("not allowed to manage tenant")

	// General errors
	ErrNotFound      = errors.New("not found")
	ErrRequiredField = errors.New("required field missing")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Required returns ErrRequiredField annotated with the missing field name.
func Required(field string) error {
	return fmt.Errorf("%s: %w", field, ErrRequiredField)
}
