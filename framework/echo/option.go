package echoauth

import "github.com/labstack/echo/v4"

// Option defines a functional option for configuring the middleware.
type Option func(*config)

// WithErrorHandler sets a custom error handler for the middleware.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithContextKey sets the echo context key the authenticated result is
// stored under.
func WithContextKey(key string) Option {
	return func(cfg *config) {
		cfg.contextKey = key
	}
}
