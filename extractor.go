package locoauth

import (
	"errors"
	"net/http"
	"strings"
)

const (
	authHeader  = "Authorization"
	tokenPrefix = "Bearer "
)

// TokenExtractor is a function that takes a request as input and returns
// either a token or an error. An error should only be returned if an attempt
// to specify a token was found, but the information was somehow incorrectly
// formed. In the case where a token is simply not present, this should not
// be treated as an error. An empty string should be returned in that case.
type TokenExtractor func(r *http.Request) (string, error)

// AuthHeaderTokenExtractor is a TokenExtractor that takes a request
// and extracts the token from the Authorization header.
//
// The header value must start with exactly "Bearer " (trailing space
// included); everything after the prefix is the token. A value of just
// "Bearer" is rejected.
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	header := r.Header.Get(authHeader)
	if header == "" {
		return "", nil // No error, just no token.
	}

	token, ok := strings.CutPrefix(header, tokenPrefix)
	if !ok {
		return "", errors.New("Authorization header format must be Bearer {token}")
	}

	return token, nil
}

// CookieTokenExtractor builds a TokenExtractor that takes a request and
// extracts the token from the cookie using the passed in cookieName. The
// token is the cookie's decoded value as-is, so values containing an "="
// are preserved.
func CookieTokenExtractor(cookieName string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			return "", nil // No cookie, then no token, so no error.
		}

		return cookie.Value, nil
	}
}

// ParameterTokenExtractor returns a TokenExtractor that extracts
// the token from the specified query string parameter.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		return r.URL.Query().Get(param), nil
	}
}

// LocationTokenExtractor returns the TokenExtractor for a configured
// token location.
func LocationTokenExtractor(loc Location) TokenExtractor {
	switch loc.From {
	case LocationCookie:
		return CookieTokenExtractor(loc.Name)
	case LocationQuery:
		return ParameterTokenExtractor(loc.Name)
	default:
		return AuthHeaderTokenExtractor
	}
}

// LocationsTokenExtractor returns a TokenExtractor that tries each of the
// configured token locations in order and returns the token from the first
// one that carries a token. A location that fails or is empty is skipped;
// later locations are never consulted once a token is found, even if they
// also carry one. When the location list is empty the Authorization header
// is the single default location.
func LocationsTokenExtractor(locations []Location) TokenExtractor {
	if len(locations) == 0 {
		locations = []Location{BearerLocation()}
	}

	extractors := make([]TokenExtractor, len(locations))
	for i, loc := range locations {
		extractors[i] = LocationTokenExtractor(loc)
	}

	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			token, err := ex(r)
			if err != nil {
				// A malformed value in one location must not prevent a
				// later location from supplying the token.
				continue
			}
			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}

// MultiTokenExtractor returns a TokenExtractor that runs multiple TokenExtractors
// and takes the one that does not return an empty token. If a TokenExtractor
// returns an error that error is immediately returned.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			token, err := ex(r)
			if err != nil {
				return "", err
			}

			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}
