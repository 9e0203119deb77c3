package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Eursukkul/club-cms/internal/dto"
	"github.com/labstack/echo/v4"
)

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var body any = dto.ErrorResponse{Message: http.StatusText(code)}

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			body = dto.ErrorResponse{Message: m}
		case dto.ValidationErrorResponse:
			body = m
		default:
			body = dto.ErrorResponse{Message: http.StatusText(code)}
		}
	} else {
		slog.Error("unhandled error", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}
