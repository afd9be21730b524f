package locoauth

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantError string
	}{
		{
			name:   "minimal valid config",
			config: Config{Secret: "sekret", Expiration: 604800},
		},
		{
			name: "valid config with locations",
			config: Config{
				Secret:     "sekret",
				Expiration: 604800,
				Location:   []Location{BearerLocation(), CookieLocation("token")},
			},
		},
		{
			name:      "missing secret",
			config:    Config{Expiration: 604800},
			wantError: "auth.jwt.secret is required",
		},
		{
			name:      "missing expiration",
			config:    Config{Secret: "sekret"},
			wantError: "auth.jwt.expiration must be a positive number of seconds",
		},
		{
			name:      "unsupported algorithm",
			config:    Config{Secret: "sekret", Expiration: 1, Algorithm: "RS256"},
			wantError: `auth.jwt.algorithm "RS256" is not a supported HMAC algorithm`,
		},
		{
			name: "cookie location without name",
			config: Config{
				Secret:     "sekret",
				Expiration: 1,
				Location:   []Location{{From: LocationCookie}},
			},
			wantError: "auth.jwt.location[0]: cookie token location requires a name",
		},
		{
			name: "query location without name",
			config: Config{
				Secret:     "sekret",
				Expiration: 1,
				Location:   []Location{BearerLocation(), {From: LocationQuery}},
			},
			wantError: "auth.jwt.location[1]: query token location requires a name",
		},
		{
			name: "unknown location kind",
			config: Config{
				Secret:     "sekret",
				Expiration: 1,
				Location:   []Location{{From: "header"}},
			},
			wantError: `auth.jwt.location[0]: unknown token location "header"`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.config.Validate()
			if test.wantError != "" {
				assert.EqualError(t, err, test.wantError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigLocationsDefault(t *testing.T) {
	cfg := &Config{Secret: "sekret", Expiration: 1}

	if diff := cmp.Diff([]Location{{From: LocationBearer}}, cfg.locations()); diff != "" {
		t.Fatalf("locations mismatch (-want +got):\n%s", diff)
	}

	cfg.Location = []Location{QueryLocation("token")}
	if diff := cmp.Diff([]Location{{From: LocationQuery, Name: "token"}}, cfg.locations()); diff != "" {
		t.Fatalf("locations mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigFromViper(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		want      *Config
		wantError string
	}{
		{
			name: "single location mapping",
			yaml: `
auth:
  jwt:
    secret: sekret
    expiration: 604800
    location:
      from: Cookie
      name: loco_cookie_key
`,
			want: &Config{
				Secret:     "sekret",
				Expiration: 604800,
				Location:   []Location{CookieLocation("loco_cookie_key")},
			},
		},
		{
			name: "location list",
			yaml: `
auth:
  jwt:
    secret: sekret
    expiration: 604800
    location:
      - from: Bearer
      - from: Query
        name: query_token
`,
			want: &Config{
				Secret:     "sekret",
				Expiration: 604800,
				Location:   []Location{BearerLocation(), QueryLocation("query_token")},
			},
		},
		{
			name: "no location",
			yaml: `
auth:
  jwt:
    secret: sekret
    expiration: 604800
`,
			want: &Config{Secret: "sekret", Expiration: 604800},
		},
		{
			name: "invalid location kind",
			yaml: `
auth:
  jwt:
    secret: sekret
    expiration: 604800
    location:
      from: Header
`,
			wantError: "decode auth.jwt",
		},
		{
			name: "missing section",
			yaml: `
server:
  port: 8080
`,
			wantError: `configuration key "auth.jwt" is not set`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v := viper.New()
			v.SetConfigType("yaml")
			require.NoError(t, v.ReadConfig(strings.NewReader(test.yaml)))

			got, err := ConfigFromViper(v, "auth.jwt")
			if test.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.wantError)
				return
			}

			require.NoError(t, err)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
