package locoauth

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// LocationKind identifies where in a request a token is carried.
type LocationKind string

const (
	// LocationBearer reads the token from the Authorization header using the
	// Bearer scheme.
	LocationBearer LocationKind = "bearer"
	// LocationCookie reads the token from a named cookie.
	LocationCookie LocationKind = "cookie"
	// LocationQuery reads the token from a named query string parameter.
	LocationQuery LocationKind = "query"
)

// UnmarshalText allows LocationKind to be decoded case-insensitively from
// configuration files ("Bearer", "bearer", "BEARER" are all accepted).
func (k *LocationKind) UnmarshalText(text []byte) error {
	switch kind := LocationKind(strings.ToLower(string(text))); kind {
	case LocationBearer, LocationCookie, LocationQuery:
		*k = kind
		return nil
	default:
		return fmt.Errorf("unknown token location %q", string(text))
	}
}

// Location is one candidate place to look for a token. Name is required for
// cookie and query locations and ignored for bearer.
type Location struct {
	From LocationKind `mapstructure:"from" json:"from" yaml:"from"`
	Name string       `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`
}

// BearerLocation returns a Location that reads the Authorization header.
func BearerLocation() Location {
	return Location{From: LocationBearer}
}

// CookieLocation returns a Location that reads the named cookie.
func CookieLocation(name string) Location {
	return Location{From: LocationCookie, Name: name}
}

// QueryLocation returns a Location that reads the named query parameter.
func QueryLocation(name string) Location {
	return Location{From: LocationQuery, Name: name}
}

func (l Location) validate() error {
	switch l.From {
	case LocationBearer:
		return nil
	case LocationCookie, LocationQuery:
		if l.Name == "" {
			return fmt.Errorf("%s token location requires a name", l.From)
		}
		return nil
	default:
		return fmt.Errorf("unknown token location %q", l.From)
	}
}

// Config is the JWT section of the authentication configuration
// (auth.jwt.* in the host application's configuration file). It is built
// once at startup and never mutated afterwards, so it is safe to share
// across concurrent requests.
type Config struct {
	// Secret is the shared HMAC signing key.
	Secret string `mapstructure:"secret" json:"secret" yaml:"secret"`

	// Expiration is the token lifetime in seconds used when generating
	// tokens.
	Expiration int `mapstructure:"expiration" json:"expiration" yaml:"expiration"`

	// Algorithm is the HMAC signing algorithm used when generating tokens
	// (HS256, HS384 or HS512). Defaults to HS512. Verification accepts any
	// of the three, matching the algorithm the token declares.
	Algorithm string `mapstructure:"algorithm" json:"algorithm,omitempty" yaml:"algorithm,omitempty"`

	// Location lists the places to look for a token, tried in order. When
	// empty the Authorization header (Bearer scheme) is the only location.
	Location []Location `mapstructure:"location" json:"location,omitempty" yaml:"location,omitempty"`
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("auth.jwt.secret is required")
	}
	if c.Expiration <= 0 {
		return errors.New("auth.jwt.expiration must be a positive number of seconds")
	}
	switch c.Algorithm {
	case "", "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("auth.jwt.algorithm %q is not a supported HMAC algorithm", c.Algorithm)
	}
	for i, loc := range c.Location {
		if err := loc.validate(); err != nil {
			return fmt.Errorf("auth.jwt.location[%d]: %w", i, err)
		}
	}
	return nil
}

// expiration returns the configured token lifetime as a duration.
func (c *Config) expiration() time.Duration {
	return time.Duration(c.Expiration) * time.Second
}

// locations returns the ordered list of locations to try. An unset location
// list means the single default location, the Authorization header.
func (c *Config) locations() []Location {
	if len(c.Location) == 0 {
		return []Location{BearerLocation()}
	}
	return c.Location
}

// ConfigFromViper reads the JWT configuration from the given viper instance
// under key (typically "auth.jwt"). The location entry may be a single
// mapping or a list of mappings:
//
//	auth:
//	  jwt:
//	    secret: sekret
//	    expiration: 604800
//	    location:
//	      from: Cookie
//	      name: token
func ConfigFromViper(v *viper.Viper, key string) (*Config, error) {
	if !v.IsSet(key) {
		return nil, fmt.Errorf("configuration key %q is not set", key)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		singleLocationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.UnmarshalKey(key, &cfg, hook); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// singleLocationHookFunc lets a bare location mapping decode into the
// []Location field, so configuration files may write either a single
// location or a list.
func singleLocationHookFunc() mapstructure.DecodeHookFuncValue {
	return func(from, to reflect.Value) (interface{}, error) {
		if to.Type() != reflect.TypeOf([]Location{}) {
			return from.Interface(), nil
		}
		if from.Kind() == reflect.Map {
			return []interface{}{from.Interface()}, nil
		}
		return from.Interface(), nil
	}
}
