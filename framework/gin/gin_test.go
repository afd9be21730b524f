package ginauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	locoauth "github.com/Swoorup/locoauth"
)

type testUser struct {
	PID    string
	APIKey string
}

type fakeStore struct {
	user *testUser
	err  error
}

func (s *fakeStore) FindByClaimsKey(ctx context.Context, key string) (*testUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.PID != key {
		return nil, locoauth.ErrIdentityNotFound
	}
	return s.user, nil
}

func (s *fakeStore) FindByAPIKey(ctx context.Context, apiKey string) (*testUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.APIKey != apiKey {
		return nil, locoauth.ErrIdentityNotFound
	}
	return s.user, nil
}

func testConfig() *locoauth.Config {
	return &locoauth.Config{Secret: "sekret", Expiration: 3600}
}

func newTestAuthenticator(t *testing.T, store *fakeStore) *locoauth.Authenticator[*testUser] {
	t.Helper()

	opts := []locoauth.Option[*testUser]{}
	if store != nil {
		opts = append(opts, locoauth.WithIdentityStore[*testUser](store))
	}
	auth, err := locoauth.NewAuthenticator[*testUser](testConfig(), opts...)
	require.NoError(t, err)
	return auth
}

func signToken(t *testing.T, pid string) string {
	t.Helper()

	verifier, err := locoauth.NewVerifier(testConfig())
	require.NoError(t, err)
	token, err := verifier.Generate(pid, nil)
	require.NoError(t, err)
	return token
}

func TestRequireJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newTestAuthenticator(t, nil)
	pid := uuid.NewString()

	router := gin.New()
	router.GET("/protected", RequireJWT(auth), func(c *gin.Context) {
		claims, ok := GetClaims(c, "")
		require.True(t, ok)

		ctxClaims, err := locoauth.GetClaims(c.Request.Context())
		require.NoError(t, err)
		assert.Same(t, claims, ctxClaims)

		c.JSON(http.StatusOK, gin.H{"pid": claims.PID})
	})

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, pid))
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"pid":"`+pid+`"}`, w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Token not found, check your auth.jwt.location configuration."}`, w.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Token is not valid."}`, w.Body.String())
	})
}

func TestRequireJWTWithIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := &testUser{PID: uuid.NewString()}

	newRouter := func(store *fakeStore) *gin.Engine {
		auth := newTestAuthenticator(t, store)
		router := gin.New()
		router.GET("/protected", RequireJWTWithIdentity(auth), func(c *gin.Context) {
			principal, ok := GetPrincipal[*testUser](c, "")
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"pid": principal.Identity.PID})
		})
		return router
	}

	t.Run("identity found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, user.PID))
		newRouter(&fakeStore{user: user}).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"pid":"`+user.PID+`"}`, w.Body.String())
	})

	t.Run("identity not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, user.PID))
		newRouter(&fakeStore{}).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &fakeStore{user: user, err: &locoauth.StoreError{Op: "find_by_claims_key", Err: assert.AnError}}

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, user.PID))
		newRouter(store).ServeHTTP(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRequireAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := &testUser{PID: uuid.NewString(), APIKey: "lo-" + uuid.NewString()}
	auth := newTestAuthenticator(t, &fakeStore{user: user})

	router := gin.New()
	router.GET("/protected", RequireAPIKey(auth), func(c *gin.Context) {
		value, exists := c.Get(DefaultContextKey)
		require.True(t, exists)
		c.JSON(http.StatusOK, gin.H{"pid": value.(*testUser).PID})
	})

	t.Run("key found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer "+user.APIKey)
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"pid":"`+user.PID+`"}`, w.Body.String())
	})

	t.Run("key not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer unknown-key")
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newTestAuthenticator(t, nil)
	pid := uuid.NewString()

	t.Run("custom context key", func(t *testing.T) {
		router := gin.New()
		router.GET("/protected", RequireJWT(auth, WithContextKey("claims")), func(c *gin.Context) {
			claims, ok := GetClaims(c, "claims")
			require.True(t, ok)
			c.String(http.StatusOK, claims.PID)
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, pid))
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, pid, w.Body.String())
	})

	t.Run("custom error handler", func(t *testing.T) {
		router := gin.New()
		router.GET("/protected", RequireJWT(auth, WithErrorHandler(func(c *gin.Context, err error) {
			c.AbortWithStatus(http.StatusTeapot)
		})), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}
