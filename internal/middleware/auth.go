package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Eursukkul/club-cms/internal/auth"
	"github.com/labstack/echo/v4"
)

const ClaimsKey = "claims"

// RequireAdmin rejects requests without a valid admin bearer token.
// A nil authenticator lets every request through (AUTH_DISABLED).
func RequireAdmin(a *auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if a == nil {
			return next
		}
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="club-cms"`)
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := a.Verify(token)
			if err != nil {
				slog.Warn("rejected token", "remote_ip", c.RealIP(), "error", err)
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="club-cms", error="invalid_token"`)
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
