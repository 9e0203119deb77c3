package server

import (
	"log/slog"
	"net/http"

	"github.com/Eursukkul/club-cms/internal/auth"
	"github.com/Eursukkul/club-cms/internal/handler"
	"github.com/Eursukkul/club-cms/internal/middleware"
	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/Eursukkul/club-cms/internal/service"
	"github.com/Eursukkul/club-cms/internal/validation"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

const ServiceName = "club-cms"

type Deps struct {
	Events    service.RecordService[models.Event]
	Workshops service.RecordService[models.Workshop]
	// Auth guards every write; nil leaves writes open.
	Auth        *auth.Authenticator
	CORSOrigins []string
}

func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = validation.New()

	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				slog.Warn("request", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.BodyLimit("1M"))
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": ServiceName})
	})

	api := e.Group("/api")
	requireAdmin := middleware.RequireAdmin(d.Auth)

	if d.Auth != nil {
		handler.NewAuthHandler(d.Auth).RegisterRoutes(api.Group("/auth"))
	}
	handler.NewEventHandler(d.Events).RegisterRoutes(api.Group("/"+models.EventKind.Name), requireAdmin)
	handler.NewWorkshopHandler(d.Workshops).RegisterRoutes(api.Group("/"+models.WorkshopKind.Name), requireAdmin)

	return e
}
