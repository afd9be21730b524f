package locoauth

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
// Using an unexported type ensures that only this package can create context
// keys, eliminating the risk of collisions with other packages.
type contextKey int

const (
	claimsKey contextKey = iota
	principalKey
	identityKey
)

// SetClaims stores verified claims in the context. This is a helper for
// middleware and adapters to call after a successful JWT-only
// authentication.
func SetClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims retrieves the verified claims from the context.
func GetClaims(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok {
		return nil, ErrPrincipalNotFound
	}
	return claims, nil
}

// SetPrincipal stores an authenticated principal in the context.
func SetPrincipal[T any](ctx context.Context, principal *Principal[T]) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// GetPrincipal retrieves the authenticated principal from the context with
// type safety using generics.
//
// Example:
//
//	principal, err := locoauth.GetPrincipal[*User](r.Context())
//	if err != nil {
//	    http.Error(w, "unauthorized", http.StatusUnauthorized)
//	    return
//	}
//	fmt.Println(principal.Claims.PID, principal.Identity.Email)
func GetPrincipal[T any](ctx context.Context) (*Principal[T], error) {
	principal, ok := ctx.Value(principalKey).(*Principal[T])
	if !ok {
		return nil, ErrPrincipalNotFound
	}
	return principal, nil
}

// SetIdentity stores an API-key-authenticated identity in the context.
func SetIdentity[T any](ctx context.Context, identity T) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the API-key-authenticated identity from the context.
func GetIdentity[T any](ctx context.Context) (T, error) {
	identity, ok := ctx.Value(identityKey).(T)
	if !ok {
		var zero T
		return zero, ErrPrincipalNotFound
	}
	return identity, nil
}

// HasClaims checks if verified claims exist in the context without
// retrieving them.
func HasClaims(ctx context.Context) bool {
	return ctx.Value(claimsKey) != nil
}
