package ginauth

import "github.com/gin-gonic/gin"

// Option defines a functional option for configuring the middleware.
type Option func(*config)

// WithErrorHandler sets a custom error handler for the middleware. The
// handler is responsible for aborting the chain.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithContextKey sets the gin context key the authenticated result is
// stored under.
func WithContextKey(key string) Option {
	return func(cfg *config) {
		cfg.contextKey = key
	}
}
