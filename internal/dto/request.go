package dto

import (
	"net/http"

	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/Eursukkul/club-cms/internal/validation"
	"github.com/labstack/echo/v4"
)

// RecordFields is the client-supplied field set shared by every kind.
type RecordFields struct {
	Title           string `json:"title" validate:"required,notblank,max=200"`
	Description     string `json:"description" validate:"max=1000"`
	FullDescription string `json:"fullDescription"`
	Date            string `json:"date" validate:"max=100"`
	Time            string `json:"time" validate:"max=100"`
	Location        string `json:"location" validate:"required,notblank,max=200"`
	Capacity        *int   `json:"capacity" validate:"required,gte=0"`
	Registered      int    `json:"registered" validate:"gte=0"`
	Status          string `json:"status" validate:"omitempty,oneof=Draft Published"`
	Featured        bool   `json:"featured"`
}

type EventRequest struct {
	RecordFields
	Category string `json:"category" validate:"omitempty,oneof=Healthcare Competition Ethics Networking Entrepreneurship Creative"`
}

type WorkshopRequest struct {
	RecordFields
	Level    string `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Duration string `json:"duration" validate:"max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Binder decodes and validates a request body into a record of kind T.
type Binder[T any] func(c echo.Context) (*T, error)

func BindEvent(c echo.Context) (*models.Event, error) {
	return bind[models.Event](c, &EventRequest{})
}

func BindWorkshop(c echo.Context) (*models.Workshop, error) {
	return bind[models.Workshop](c, &WorkshopRequest{})
}

func (r *EventRequest) toModel() *models.Event {
	return &models.Event{Record: r.record(), Category: r.Category}
}

func (r *WorkshopRequest) toModel() *models.Workshop {
	return &models.Workshop{Record: r.record(), Level: r.Level, Duration: r.Duration}
}

func (f *RecordFields) record() models.Record {
	rec := models.Record{
		Title:           f.Title,
		Description:     f.Description,
		FullDescription: f.FullDescription,
		Date:            f.Date,
		Time:            f.Time,
		Location:        f.Location,
		Registered:      f.Registered,
		Status:          models.Status(f.Status),
		Featured:        f.Featured,
	}
	if f.Capacity != nil {
		rec.Capacity = *f.Capacity
	}
	return rec
}

// crossFieldErrors covers rules that span fields.
func (f *RecordFields) crossFieldErrors() map[string]string {
	if f.Capacity != nil && f.Registered > *f.Capacity {
		return map[string]string{"registered": "ltefield=capacity"}
	}
	return nil
}

type request[T any] interface {
	toModel() *T
	crossFieldErrors() map[string]string
}

func bind[T any, R request[T]](c echo.Context, req R) (*T, error) {
	if err := c.Bind(req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := c.Validate(req)
	fields := validation.Fields(err)
	if err != nil && fields == nil {
		return nil, err
	}
	for k, v := range req.crossFieldErrors() {
		if fields == nil {
			fields = map[string]string{}
		}
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}
	if len(fields) > 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, ValidationErrorResponse{
			Message: "validation failed",
			Fields:  fields,
		})
	}

	return req.toModel(), nil
}
