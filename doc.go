/*
Package locoauth authenticates HTTP requests carrying JWT bearer tokens or
raw API keys and hands request handlers an authenticated principal.

A token is located by trying the configured credential locations (the
Authorization header, a named cookie, a named query parameter) in order,
verified against a shared HMAC secret, and optionally resolved to a backing
identity record through an injected IdentityStore.

# Quick Start

	cfg := &locoauth.Config{
	    Secret:     "sekret",
	    Expiration: 604800,
	}

	auth, err := locoauth.NewAuthenticator[*User](cfg,
	    locoauth.WithIdentityStore[*User](users),
	)
	if err != nil {
	    log.Fatal(err)
	}

	mw, err := locoauth.NewMiddleware(auth)
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/api/", mw.RequireJWTWithIdentity(apiHandler))

Inside a handler:

	principal, err := locoauth.GetPrincipal[*User](r.Context())
	if err != nil {
	    http.Error(w, "unauthorized", http.StatusUnauthorized)
	    return
	}
	fmt.Fprintf(w, "hello %s", principal.Claims.PID)

# Authentication Modes

Handlers declare what they need by choosing the wrapper:

  - RequireJWT: verified claims only, no identity lookup
  - RequireJWTWithIdentity: claims plus the identity resolved by the
    claims' principal identifier
  - RequireAPIKey: identity resolved by the raw bearer value; no JWT
    verification

Each mode short-circuits on the first failure. Token, verification and
identity failures surface as an unauthorized rejection; an identity store
failure surfaces as an internal failure. Raw error detail is logged where it
occurs and never written to responses.

# Token Locations

The locations to search are part of the JWT configuration and are tried in
the configured order; the first location carrying a token wins. With no
location configured the Authorization header (Bearer scheme) is the single
default:

	auth:
	  jwt:
	    secret: sekret
	    expiration: 604800
	    location:
	      - from: Cookie
	        name: token
	      - from: Query
	        name: token

Framework adapters for gin, echo and gRPC live under framework/.
*/
package locoauth
