package locoauth

import (
	"context"
	"errors"
	"net/http"
)

// ExclusionHandler is a function that takes a http.Request and returns true
// if the request should be excluded from authentication.
type ExclusionHandler func(r *http.Request) bool

// Middleware adapts an Authenticator to net/http handler chains. Handlers
// pick the authentication mode they need by choosing the wrapper: RequireJWT,
// RequireJWTWithIdentity or RequireAPIKey. On success the authenticated
// result is stored in the request context; on failure the error handler
// writes the rejection and the wrapped handler never runs.
type Middleware[T any] struct {
	auth              *Authenticator[T]
	errorHandler      ErrorHandler
	exclusionHandler  ExclusionHandler
	validateOnOptions bool
}

// MiddlewareOption configures a Middleware.
type MiddlewareOption[T any] func(*Middleware[T]) error

// WithErrorHandler sets the handler invoked for failed authentication
// attempts.
//
// Default: DefaultErrorHandler.
func WithErrorHandler[T any](handler ErrorHandler) MiddlewareOption[T] {
	return func(m *Middleware[T]) error {
		if handler == nil {
			return errors.New("error handler must not be nil")
		}
		m.errorHandler = handler
		return nil
	}
}

// WithExclusionHandler sets a predicate for requests that bypass
// authentication entirely, such as health endpoints.
func WithExclusionHandler[T any](handler ExclusionHandler) MiddlewareOption[T] {
	return func(m *Middleware[T]) error {
		m.exclusionHandler = handler
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests are authenticated.
//
// Default: true (OPTIONS requests are authenticated).
func WithValidateOnOptions[T any](value bool) MiddlewareOption[T] {
	return func(m *Middleware[T]) error {
		m.validateOnOptions = value
		return nil
	}
}

// NewMiddleware constructs a Middleware around the given Authenticator.
func NewMiddleware[T any](auth *Authenticator[T], opts ...MiddlewareOption[T]) (*Middleware[T], error) {
	if auth == nil {
		return nil, errors.New("authenticator must not be nil")
	}

	m := &Middleware[T]{
		auth:              auth,
		errorHandler:      DefaultErrorHandler,
		validateOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RequireJWT authenticates the request with the JWT-only mode and stores the
// verified claims in the request context. Retrieve them with GetClaims.
func (m *Middleware[T]) RequireJWT(next http.Handler) http.Handler {
	return m.handler(next, func(r *http.Request) (context.Context, error) {
		claims, err := m.auth.AuthenticateJWT(r)
		if err != nil {
			return nil, err
		}
		return SetClaims(r.Context(), claims), nil
	})
}

// RequireJWTWithIdentity authenticates the request and resolves the backing
// identity, storing the principal in the request context. Retrieve it with
// GetPrincipal.
func (m *Middleware[T]) RequireJWTWithIdentity(next http.Handler) http.Handler {
	return m.handler(next, func(r *http.Request) (context.Context, error) {
		principal, err := m.auth.AuthenticateJWTWithIdentity(r)
		if err != nil {
			return nil, err
		}
		return SetPrincipal(r.Context(), principal), nil
	})
}

// RequireAPIKey authenticates the request with the API-key mode and stores
// the resolved identity in the request context. Retrieve it with
// GetIdentity.
func (m *Middleware[T]) RequireAPIKey(next http.Handler) http.Handler {
	return m.handler(next, func(r *http.Request) (context.Context, error) {
		identity, err := m.auth.AuthenticateAPIKey(r)
		if err != nil {
			return nil, err
		}
		return SetIdentity(r.Context(), identity), nil
	})
}

func (m *Middleware[T]) handler(next http.Handler, authenticate func(*http.Request) (context.Context, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.exclusionHandler != nil && m.exclusionHandler(r) {
			if m.auth.logger != nil {
				m.auth.logger.Debugf("skipping authentication for excluded URL %s", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}

		// If we don't validate on OPTIONS and this is OPTIONS
		// then continue onto next without validating.
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		ctx, err := authenticate(r)
		if err != nil {
			m.errorHandler(w, r, err)
			return
		}

		next.ServeHTTP(w, r.Clone(ctx))
	})
}
