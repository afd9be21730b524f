package locoauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Authenticator composes token extraction, verification and identity
// resolution into the three supported authentication modes. T is the host
// application's identity record type.
//
// The Authenticate* methods work on *http.Request; the Check* methods take
// an already-extracted token and are what transport adapters (such as the
// gRPC interceptor) build on.
//
// An Authenticator is immutable after construction and safe for concurrent
// use; each call operates only on the request it is given.
type Authenticator[T any] struct {
	config    *Config
	verifier  *Verifier
	store     IdentityStore[T]
	extractor TokenExtractor
	logger    Logger
	metrics   Metrics
	tracer    Tracer
}

// NewAuthenticator builds an Authenticator for the given JWT configuration.
// The identity store is only required by the identity-resolving modes and is
// supplied with WithIdentityStore.
func NewAuthenticator[T any](cfg *Config, opts ...Option[T]) (*Authenticator[T], error) {
	if cfg == nil {
		return nil, errors.New("auth is not configured")
	}

	verifier, err := NewVerifier(cfg)
	if err != nil {
		return nil, err
	}

	a := &Authenticator[T]{
		config:   cfg,
		verifier: verifier,
		metrics:  &NoopMetrics{},
		tracer:   &NoopTracer{},
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if a.extractor == nil {
		a.extractor = LocationsTokenExtractor(cfg.locations())
	}

	return a, nil
}

// AuthenticateJWT extracts and verifies a token and returns its claims. No
// identity lookup is performed.
func (a *Authenticator[T]) AuthenticateJWT(r *http.Request) (*Claims, error) {
	token, err := a.extract(r)
	if err != nil {
		return nil, err
	}
	return a.CheckToken(r.Context(), token)
}

// AuthenticateJWTWithIdentity extracts and verifies a token, then resolves
// the backing identity keyed by the claims' principal identifier.
func (a *Authenticator[T]) AuthenticateJWTWithIdentity(r *http.Request) (*Principal[T], error) {
	token, err := a.extract(r)
	if err != nil {
		return nil, err
	}
	return a.CheckTokenWithIdentity(r.Context(), token)
}

// AuthenticateAPIKey reads a raw API key from the Authorization header
// (Bearer scheme only; configured token locations do not apply) and resolves
// the identity owning it. No token verification is involved.
func (a *Authenticator[T]) AuthenticateAPIKey(r *http.Request) (T, error) {
	var zero T

	apiKey, err := AuthHeaderTokenExtractor(r)
	if err != nil {
		return zero, fmt.Errorf("error extracting token: %w", err)
	}
	return a.CheckAPIKey(r.Context(), apiKey)
}

// CheckToken verifies an already-extracted token and returns its claims. An
// empty token reports ErrTokenMissing.
func (a *Authenticator[T]) CheckToken(ctx context.Context, token string) (*Claims, error) {
	defer a.observe("jwt", time.Now())

	span := a.tracer.StartSpan("authenticate")
	span.SetTag("mode", "jwt")
	defer span.Finish()

	return a.verifiedClaims(token)
}

// CheckTokenWithIdentity verifies an already-extracted token and resolves
// the backing identity keyed by the claims' principal identifier.
func (a *Authenticator[T]) CheckTokenWithIdentity(ctx context.Context, token string) (*Principal[T], error) {
	defer a.observe("jwt_identity", time.Now())

	span := a.tracer.StartSpan("authenticate")
	span.SetTag("mode", "jwt_identity")
	defer span.Finish()

	claims, err := a.verifiedClaims(token)
	if err != nil {
		return nil, err
	}

	if a.store == nil {
		return nil, errors.New("identity store is not configured")
	}

	identity, err := a.store.FindByClaimsKey(ctx, claims.PID)
	if err != nil {
		return nil, a.classifyStoreError("find_by_claims_key", err)
	}

	return &Principal[T]{Claims: claims, Identity: identity}, nil
}

// CheckAPIKey resolves the identity owning an already-extracted raw API key.
// An empty key reports ErrTokenMissing.
func (a *Authenticator[T]) CheckAPIKey(ctx context.Context, apiKey string) (T, error) {
	var zero T

	defer a.observe("api_key", time.Now())

	span := a.tracer.StartSpan("authenticate")
	span.SetTag("mode", "api_key")
	defer span.Finish()

	if apiKey == "" {
		return zero, ErrTokenMissing
	}

	if a.store == nil {
		return zero, errors.New("identity store is not configured")
	}

	identity, err := a.store.FindByAPIKey(ctx, apiKey)
	if err != nil {
		return zero, a.classifyStoreError("find_by_api_key", err)
	}

	return identity, nil
}

// extract runs the configured token extractor against the request.
func (a *Authenticator[T]) extract(r *http.Request) (string, error) {
	token, err := a.extractor(r)
	if err != nil {
		// This is not ErrTokenMissing because an error here means that the
		// extractor found a token that was malformed, not that the token
		// was missing.
		return "", fmt.Errorf("error extracting token: %w", err)
	}
	return token, nil
}

// verifiedClaims runs the verifier, short-circuiting on a missing token.
func (a *Authenticator[T]) verifiedClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	claims, err := a.verifier.Validate(token)
	if err != nil {
		// The verification detail is logged here and nowhere else; callers
		// only ever see the generic invalid-token rejection.
		if a.logger != nil {
			a.logger.Errorf("JWT validation error: %v", err)
		}
		return nil, err
	}

	return claims, nil
}

// classifyStoreError maps an identity store failure onto the caller-visible
// error taxonomy. A clean miss and any unrecognized error both reject the
// request as unauthorized; only a *StoreError surfaces as an internal
// failure. Store detail is logged here and never propagated to responses.
func (a *Authenticator[T]) classifyStoreError(op string, err error) error {
	var storeErr *StoreError
	switch {
	case errors.Is(err, ErrIdentityNotFound):
		return ErrIdentityNotFound
	case errors.As(err, &storeErr):
		if a.logger != nil {
			a.logger.Errorf("identity store error during authentication: %v", err)
		}
		return storeErr
	default:
		if a.logger != nil {
			a.logger.Errorf("authentication error during %s: %v", op, err)
		}
		return fmt.Errorf("could not authorize: %w", ErrIdentityNotFound)
	}
}

func (a *Authenticator[T]) observe(mode string, start time.Time) {
	tags := map[string]string{"mode": mode}
	a.metrics.IncCounter("auth_attempts_total", tags)
	a.metrics.ObserveHistogram("auth_duration_seconds", time.Since(start).Seconds(), tags)
}
