package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Eursukkul/club-cms/internal/dto"
	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/Eursukkul/club-cms/internal/repository"
	"github.com/Eursukkul/club-cms/internal/service"
	"github.com/labstack/echo/v4"
)

// RecordHandler serves the CRUD routes of one record collection.
type RecordHandler[T any] struct {
	kind models.Kind
	svc  service.RecordService[T]
	bind dto.Binder[T]
}

func NewRecordHandler[T any, P models.EntityPtr[T]](svc service.RecordService[T], bind dto.Binder[T]) *RecordHandler[T] {
	return &RecordHandler[T]{kind: models.KindOf[T, P](), svc: svc, bind: bind}
}

func NewEventHandler(svc service.RecordService[models.Event]) *RecordHandler[models.Event] {
	return NewRecordHandler[models.Event](svc, dto.BindEvent)
}

func NewWorkshopHandler(svc service.RecordService[models.Workshop]) *RecordHandler[models.Workshop] {
	return NewRecordHandler[models.Workshop](svc, dto.BindWorkshop)
}

// RegisterRoutes mounts the collection on g; writes go through the write
// middlewares, typically the admin token check.
func (h *RecordHandler[T]) RegisterRoutes(g *echo.Group, write ...echo.MiddlewareFunc) {
	g.GET("", h.List)
	g.POST("", h.Create, write...)
	g.PUT("/:id", h.Update, write...)
	g.DELETE("/:id", h.Delete, write...)
}

func (h *RecordHandler[T]) List(c echo.Context) error {
	records, err := h.svc.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if records == nil {
		records = []T{}
	}
	return c.JSON(http.StatusOK, records)
}

func (h *RecordHandler[T]) Create(c echo.Context) error {
	record, err := h.bind(c)
	if err != nil {
		return err
	}

	if err := h.svc.Create(c.Request().Context(), record); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, record)
}

func (h *RecordHandler[T]) Update(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusNotFound, h.kind.Singular+" not found")
	}

	record, err := h.bind(c)
	if err != nil {
		return err
	}

	stored, err := h.svc.Update(c.Request().Context(), id, record)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, stored)
}

func (h *RecordHandler[T]) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusNotFound, h.kind.Singular+" not found")
	}

	deleted, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, deleted)
}

// fail maps service errors to HTTP errors. Storage details are logged, not returned.
func (h *RecordHandler[T]) fail(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, h.kind.Singular+" not found")
	}
	slog.Error("record operation failed",
		"collection", h.kind.Name,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", err,
	)
	return echo.NewHTTPError(http.StatusInternalServerError, "storage unavailable").SetInternal(err)
}
