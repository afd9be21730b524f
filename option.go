package locoauth

import "errors"

// Option configures an Authenticator.
// Returns error for validation failures.
type Option[T any] func(*Authenticator[T]) error

// WithIdentityStore sets the identity store used by the identity-resolving
// modes (AuthenticateJWTWithIdentity and AuthenticateAPIKey). The JWT-only
// mode works without one.
func WithIdentityStore[T any](store IdentityStore[T]) Option[T] {
	return func(a *Authenticator[T]) error {
		if store == nil {
			return errors.New("identity store must not be nil")
		}
		a.store = store
		return nil
	}
}

// WithTokenExtractor overrides the token extractor derived from the
// configured token locations. API-key authentication always reads the
// Authorization header and is not affected.
func WithTokenExtractor[T any](extractor TokenExtractor) Option[T] {
	return func(a *Authenticator[T]) error {
		if extractor == nil {
			return errors.New("token extractor must not be nil")
		}
		a.extractor = extractor
		return nil
	}
}

// WithLogger sets the logger used for verification and store failure detail.
// Without a logger that detail is discarded; it is never part of responses
// either way.
func WithLogger[T any](logger Logger) Option[T] {
	return func(a *Authenticator[T]) error {
		a.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for authentication attempt counters and
// duration histograms.
//
// Default: NoopMetrics.
func WithMetrics[T any](metrics Metrics) Option[T] {
	return func(a *Authenticator[T]) error {
		if metrics == nil {
			return errors.New("metrics must not be nil")
		}
		a.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer used to span authentication attempts.
//
// Default: NoopTracer.
func WithTracer[T any](tracer Tracer) Option[T] {
	return func(a *Authenticator[T]) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		a.tracer = tracer
		return nil
	}
}
