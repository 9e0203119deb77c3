package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Eursukkul/club-cms/internal/auth"
	"github.com/Eursukkul/club-cms/internal/dto"
	"github.com/Eursukkul/club-cms/internal/middleware"
	"github.com/Eursukkul/club-cms/internal/validation"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	auth *auth.Authenticator
}

func NewAuthHandler(a *auth.Authenticator) *AuthHandler {
	return &AuthHandler{auth: a}
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
	g.GET("/session", h.Session, middleware.RequireAdmin(h.auth))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		if fields := validation.Fields(err); fields != nil {
			return echo.NewHTTPError(http.StatusBadRequest, dto.ValidationErrorResponse{
				Message: "validation failed",
				Fields:  fields,
			})
		}
		return err
	}

	token, expiresAt, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("failed login", "remote_ip", c.RealIP(), "username", req.Username)
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token").SetInternal(err)
	}

	slog.Info("admin login", "remote_ip", c.RealIP(), "username", req.Username)
	return c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

func (h *AuthHandler) Session(c echo.Context) error {
	claims, ok := c.Get(middleware.ClaimsKey).(*auth.Claims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
	}
	return c.JSON(http.StatusOK, dto.SessionResponse{
		Username:  claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}
