package locoauth

import "context"

// IdentityStore is the capability the pipeline uses to resolve a verified
// token into a backing identity record of type T. Implementations are
// expected to be safe for concurrent use; the pipeline issues at most one
// lookup per request and never caches results.
//
// A clean miss must be reported as ErrIdentityNotFound (directly or
// wrapped). A failure of the store itself, such as a lost connection, must
// be reported as a *StoreError so it can be classified as an internal
// failure instead of an authorization failure. Any other error is treated
// conservatively as an authorization failure.
//
// Both lookups honor the context's cancellation contract; the pipeline adds
// no timeout or retry of its own.
type IdentityStore[T any] interface {
	// FindByClaimsKey looks up the identity for a verified token's
	// principal identifier.
	FindByClaimsKey(ctx context.Context, key string) (T, error)

	// FindByAPIKey looks up the identity owning the given raw API key.
	FindByAPIKey(ctx context.Context, apiKey string) (T, error)
}

// Principal is the outcome of an identity-resolving authentication: the
// verified claims together with the identity record they resolved to. It is
// constructed per request and has no lifetime beyond it.
type Principal[T any] struct {
	Claims   *Claims
	Identity T
}
