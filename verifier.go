package locoauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by a signed token: the principal identifier
// plus the registered expiry/issued-at claims and optional free-form data.
// Claims are immutable once decoded.
type Claims struct {
	// PID identifies the principal the token was issued for. It is the key
	// used for the identity lookup.
	PID string `json:"pid"`

	// Data carries arbitrary additional claims set at generation time.
	Data map[string]any `json:"claims,omitempty"`

	jwt.RegisteredClaims
}

// Verifier generates and verifies HMAC-signed tokens using a shared secret.
// A Verifier is immutable and safe for concurrent use.
type Verifier struct {
	secret     []byte
	expiration time.Duration
	method     *jwt.SigningMethodHMAC
}

// hmacAlgorithms are the signing algorithms accepted during verification.
// The token's declared algorithm picks one of them; anything else is
// rejected before signature checking.
var hmacAlgorithms = []string{"HS256", "HS384", "HS512"}

// NewVerifier builds a Verifier from the JWT configuration.
func NewVerifier(cfg *Config) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	method := jwt.SigningMethodHS512
	switch cfg.Algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	}

	return &Verifier{
		secret:     []byte(cfg.Secret),
		expiration: cfg.expiration(),
		method:     method,
	}, nil
}

// Generate signs a token for the given principal identifier with the
// configured algorithm and expiration. data is carried verbatim under the
// "claims" field and may be nil.
func (v *Verifier) Generate(pid string, data map[string]any) (string, error) {
	now := time.Now()
	claims := &Claims{
		PID:  pid,
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(v.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(v.method, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the token's signature and expiry and returns the decoded
// claims. Every failure mode (malformed structure, bad signature, expired)
// collapses into an error matching ErrTokenInvalid; the underlying cause
// stays available via Unwrap for logging but is never meant for responses.
func (v *Verifier) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		v.keyFunc,
		jwt.WithValidMethods(hmacAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, invalidError{details: err}
	}
	if !token.Valid {
		return nil, invalidError{details: jwt.ErrTokenUnverifiable}
	}
	return claims, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return v.secret, nil
}
