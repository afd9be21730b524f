package locoauth

import (
	"errors"
	"net/http"
)

// ErrorHandler is a handler which is called when an authentication attempt
// fails. Among some general errors, this handler also determines the response
// of the middleware when a token is not found or is invalid. The err can be
// checked against ErrTokenMissing, ErrTokenInvalid and ErrIdentityNotFound
// for specific cases, and against *StoreError for identity store failures.
// If you implement your own ErrorHandler you MUST take into consideration
// the error types as not properly responding to them could result in the
// middleware not functioning as intended. In particular, raw error detail
// must never be echoed back to the client.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Rejection maps an authentication error onto the caller-visible HTTP status
// and generic message. Token and identity failures map to 401; identity
// store failures map to 500. Unrecognized errors are treated as
// authorization failures, never as a channel for internal detail.
func Rejection(err error) (status int, message string) {
	var storeErr *StoreError
	switch {
	case errors.Is(err, ErrTokenMissing):
		return http.StatusUnauthorized, "Token not found, check your auth.jwt.location configuration."
	case errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized, "Token is not valid."
	case errors.Is(err, ErrIdentityNotFound):
		return http.StatusUnauthorized, "Could not authorize."
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "Something went wrong while authenticating the request."
	default:
		return http.StatusUnauthorized, "Could not authorize."
	}
}

// DefaultErrorHandler is the default error handler implementation. If an
// error handler is not provided via the WithErrorHandler option this will be
// used. Responses carry a short generic message only; verification and store
// detail is logged where it occurs and never leaks into the response body.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status, message := Rejection(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}`))
}
