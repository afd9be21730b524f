// Package echoauth adapts the authentication pipeline to echo middleware
// chains.
package echoauth

import (
	"github.com/labstack/echo/v4"

	locoauth "github.com/Swoorup/locoauth"
)

// DefaultContextKey is the echo context key the authenticated result is
// stored under when no custom key is configured.
const DefaultContextKey = "auth"

type config struct {
	errorHandler func(echo.Context, error) error
	contextKey   string
}

func newConfig(opts []Option) *config {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		contextKey:   DefaultContextKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// RequireJWT returns an echo middleware that authenticates the request with
// the JWT-only mode. On success the *locoauth.Claims value is stored in the
// echo context and in the request context.
func RequireJWT[T any](auth *locoauth.Authenticator[T], opts ...Option) echo.MiddlewareFunc {
	cfg := newConfig(opts)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := auth.AuthenticateJWT(c.Request())
			if err != nil {
				return cfg.errorHandler(c, err)
			}

			c.Set(cfg.contextKey, claims)
			c.SetRequest(c.Request().Clone(locoauth.SetClaims(c.Request().Context(), claims)))
			return next(c)
		}
	}
}

// RequireJWTWithIdentity returns an echo middleware that authenticates the
// request and resolves the backing identity. On success the
// *locoauth.Principal[T] value is stored in the echo context and in the
// request context.
func RequireJWTWithIdentity[T any](auth *locoauth.Authenticator[T], opts ...Option) echo.MiddlewareFunc {
	cfg := newConfig(opts)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := auth.AuthenticateJWTWithIdentity(c.Request())
			if err != nil {
				return cfg.errorHandler(c, err)
			}

			c.Set(cfg.contextKey, principal)
			c.SetRequest(c.Request().Clone(locoauth.SetPrincipal(c.Request().Context(), principal)))
			return next(c)
		}
	}
}

// RequireAPIKey returns an echo middleware that authenticates the request
// with the API-key mode. On success the resolved identity is stored in the
// echo context and in the request context.
func RequireAPIKey[T any](auth *locoauth.Authenticator[T], opts ...Option) echo.MiddlewareFunc {
	cfg := newConfig(opts)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := auth.AuthenticateAPIKey(c.Request())
			if err != nil {
				return cfg.errorHandler(c, err)
			}

			c.Set(cfg.contextKey, identity)
			c.SetRequest(c.Request().Clone(locoauth.SetIdentity(c.Request().Context(), identity)))
			return next(c)
		}
	}
}

// GetClaims extracts the verified claims from the echo context.
func GetClaims(c echo.Context, contextKey string) (*locoauth.Claims, bool) {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	claims, ok := c.Get(contextKey).(*locoauth.Claims)
	return claims, ok
}

// GetPrincipal extracts the principal from the echo context.
func GetPrincipal[T any](c echo.Context, contextKey string) (*locoauth.Principal[T], bool) {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	principal, ok := c.Get(contextKey).(*locoauth.Principal[T])
	return principal, ok
}

func defaultErrorHandler(c echo.Context, err error) error {
	status, message := locoauth.Rejection(err)
	return c.JSON(status, map[string]string{"message": message})
}
