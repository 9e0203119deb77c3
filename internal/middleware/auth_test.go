package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Eursukkul/club-cms/internal/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedEcho(a *auth.Authenticator) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.POST("/write", func(c echo.Context) error {
		if claims, ok := c.Get(ClaimsKey).(*auth.Claims); ok {
			return c.String(http.StatusOK, claims.Subject)
		}
		return c.String(http.StatusOK, "anonymous")
	}, RequireAdmin(a))
	return e
}

func testAuthenticator(t *testing.T) *auth.Authenticator {
	t.Helper()
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	return auth.NewAuthenticator("admin", hash, "secret", time.Hour)
}

func TestRequireAdmin_MissingToken(t *testing.T) {
	e := protectedEcho(testAuthenticator(t))

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderWWWAuthenticate), "Bearer")
	assert.JSONEq(t, `{"message":"missing bearer token"}`, rec.Body.String())
}

func TestRequireAdmin_InvalidToken(t *testing.T) {
	e := protectedEcho(testAuthenticator(t))

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderWWWAuthenticate), "invalid_token")
}

func TestRequireAdmin_ValidToken(t *testing.T) {
	a := testAuthenticator(t)
	token, _, err := a.Issue("admin")
	require.NoError(t, err)
	e := protectedEcho(a)

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set(echo.HeaderAuthorization, "bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}

func TestRequireAdmin_DisabledPassesThrough(t *testing.T) {
	e := protectedEcho(nil)

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"BEARER  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.token, token, tc.header)
	}
}
