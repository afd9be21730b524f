package locoauth

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenMissing is returned when no configured token location carried
	// a token. The message names the configuration key to check.
	ErrTokenMissing = errors.New("token not found in any of the configured locations, check your auth.jwt.location configuration")

	// ErrTokenInvalid is returned when a token was found but failed
	// verification (bad signature, malformed structure or expired).
	ErrTokenInvalid = errors.New("token is not valid")

	// ErrIdentityNotFound is returned when the token verified but no backing
	// identity matched it. Identity stores return this sentinel (or wrap it)
	// for a clean miss.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrPrincipalNotFound is returned when no authenticated principal is
	// stored in a context.
	ErrPrincipalNotFound = errors.New("no authenticated principal in context")
)

// invalidError handles wrapping a token verification error with the concrete
// error ErrTokenInvalid. We do not expose this publicly because the interface
// methods of Is and Unwrap should give the user all they need.
type invalidError struct {
	details error
}

// Is allows the error to support equality to ErrTokenInvalid.
func (e invalidError) Is(target error) bool {
	return target == ErrTokenInvalid
}

// Error returns a string representation of the error.
func (e invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTokenInvalid, e.details)
}

// Unwrap allows the error to support equality to the
// underlying error and not just ErrTokenInvalid.
func (e invalidError) Unwrap() error {
	return e.details
}

// StoreError wraps a failure of the identity store itself, such as a lost
// connection, as opposed to a clean "no such identity" miss. It surfaces to
// callers as a generic internal failure; the cause is only ever logged.
type StoreError struct {
	// Op is the store operation that failed ("find_by_claims_key" or
	// "find_by_api_key").
	Op string

	// Err is the underlying store error.
	Err error
}

// Error returns a string representation of the error.
func (e *StoreError) Error() string {
	return fmt.Sprintf("identity store %s failed: %s", e.Op, e.Err)
}

// Unwrap returns the underlying store error.
func (e *StoreError) Unwrap() error {
	return e.Err
}
