// Package ginauth adapts the authentication pipeline to gin handler chains.
package ginauth

import (
	"github.com/gin-gonic/gin"

	locoauth "github.com/Swoorup/locoauth"
)

// DefaultContextKey is the gin context key the authenticated result is
// stored under when no custom key is configured.
const DefaultContextKey = "auth"

type config struct {
	errorHandler func(*gin.Context, error)
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

// RequireJWT returns a gin middleware that authenticates the request with
// the JWT-only mode. On success the *locoauth.Claims value is stored in the
// gin context and in the request context; on failure the chain is aborted.
func RequireJWT[T any](auth *locoauth.Authenticator[T], opts ...Option) gin.HandlerFunc {
	cfg := newConfig(opts)

	return func(c *gin.Context) {
		claims, err := auth.AuthenticateJWT(c.Request)
		if err != nil {
			cfg.errorHandler(c, err)
			return
		}

		c.Set(cfg.contextKey, claims)
		c.Request = c.Request.Clone(locoauth.SetClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// RequireJWTWithIdentity returns a gin middleware that authenticates the
// request and resolves the backing identity. On success the
// *locoauth.Principal[T] value is stored in the gin context and in the
// request context.
func RequireJWTWithIdentity[T any](auth *locoauth.Authenticator[T], opts ...Option) gin.HandlerFunc {
	cfg := newConfig(opts)

	return func(c *gin.Context) {
		principal, err := auth.AuthenticateJWTWithIdentity(c.Request)
		if err != nil {
			cfg.errorHandler(c, err)
			return
		}

		c.Set(cfg.contextKey, principal)
		c.Request = c.Request.Clone(locoauth.SetPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// RequireAPIKey returns a gin middleware that authenticates the request with
// the API-key mode. On success the resolved identity is stored in the gin
// context and in the request context.
func RequireAPIKey[T any](auth *locoauth.Authenticator[T], opts ...Option) gin.HandlerFunc {
	cfg := newConfig(opts)

	return func(c *gin.Context) {
		identity, err := auth.AuthenticateAPIKey(c.Request)
		if err != nil {
			cfg.errorHandler(c, err)
			return
		}

		c.Set(cfg.contextKey, identity)
		c.Request = c.Request.Clone(locoauth.SetIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// GetClaims retrieves the verified claims stored by RequireJWT.
func GetClaims(c *gin.Context, contextKey string) (*locoauth.Claims, bool) {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*locoauth.Claims)
	return claims, ok
}

// GetPrincipal retrieves the principal stored by RequireJWTWithIdentity.
func GetPrincipal[T any](c *gin.Context, contextKey string) (*locoauth.Principal[T], bool) {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*locoauth.Principal[T])
	return principal, ok
}

func defaultErrorHandler(c *gin.Context, err error) {
	status, message := locoauth.Rejection(err)
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
