package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/Eursukkul/club-cms/internal/server/servertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summit() *models.Event {
	return &models.Event{
		Record: models.Record{
			Title:       "AI Summit",
			Description: "Talks and demos",
			Location:    "Hall A",
			Capacity:    100,
		},
		Category: "Networking",
	}
}

func TestClient_EventLifecycle(t *testing.T) {
	srv := servertest.Start(t, true)
	ctx := context.Background()
	c := New(srv.URL, WithToken(srv.Token(t)))

	created, err := c.Events().Create(ctx, summit())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Equal(t, 0, created.Registered)
	assert.False(t, created.Featured)

	list, err := c.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	next := *created
	next.Registered = 45
	next.Status = models.StatusPublished
	updated, err := c.Events().Update(ctx, created.ID, &next)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 45, updated.Registered)
	assert.Equal(t, models.StatusPublished, updated.Status)

	deleted, err := c.Events().Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	list, err = c.Events().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_UpdateRoundTrip(t *testing.T) {
	srv := servertest.Start(t, false)
	ctx := context.Background()
	c := New(srv.URL)

	w := &models.Workshop{
		Record: models.Record{
			Title:      "Intro to Go",
			Location:   "Lab 2",
			Capacity:   12,
			Registered: 4,
			Status:     models.StatusPublished,
			Featured:   true,
		},
		Level:    "Beginner",
		Duration: "2h",
	}
	created, err := c.Workshops().Create(ctx, w)
	require.NoError(t, err)

	same := *created
	updated, err := c.Workshops().Update(ctx, created.ID, &same)
	require.NoError(t, err)

	assert.True(t, created.CreatedAt.Sub(updated.CreatedAt).Abs() < time.Millisecond)
	want, got := *created, *updated
	want.CreatedAt, want.UpdatedAt = time.Time{}, time.Time{}
	got.CreatedAt, got.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, want, got)

	list, err := c.Workshops().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestClient_WorkshopsListEmpty(t *testing.T) {
	srv := servertest.Start(t, true)

	list, err := New(srv.URL).Workshops().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestClient_WriteWithoutToken(t *testing.T) {
	srv := servertest.Start(t, true)

	_, err := New(srv.URL).Events().Create(context.Background(), summit())
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClient_ValidationError(t *testing.T) {
	srv := servertest.Start(t, false)

	bad := summit()
	bad.Title = ""
	bad.Registered = 101
	_, err := New(srv.URL).Events().Create(context.Background(), bad)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "validation failed", apiErr.Message)
	assert.Equal(t, "required", apiErr.Fields["title"])
	assert.Equal(t, "ltefield=capacity", apiErr.Fields["registered"])
	assert.Contains(t, apiErr.Error(), "title required")
}

func TestClient_NotFound(t *testing.T) {
	srv := servertest.Start(t, false)
	c := New(srv.URL)

	_, err := c.Workshops().Delete(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Events().Update(context.Background(), "does-not-exist", summit())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "event not found")
}

func TestClient_LoginAndSession(t *testing.T) {
	srv := servertest.Start(t, true)
	ctx := context.Background()
	c := New(srv.URL)

	_, err := c.Login(ctx, servertest.Username, "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	resp, err := c.Login(ctx, servertest.Username, servertest.Password)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	c.SetToken(resp.Token)
	session, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, servertest.Username, session.Username)
	assert.WithinDuration(t, resp.ExpiresAt, session.ExpiresAt, time.Second)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, WithTimeout(time.Second)).Events().List(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Events().List(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestWithTimeout_DoesNotMutateSharedClient(t *testing.T) {
	shared := &http.Client{}

	c := New("http://x", WithHTTPClient(shared), WithTimeout(3*time.Second))

	assert.Zero(t, shared.Timeout)
	assert.Equal(t, 3*time.Second, c.http.Timeout)
	assert.NotSame(t, shared, c.http)

	New("http://x", WithHTTPClient(http.DefaultClient), WithTimeout(time.Second))
	assert.Zero(t, http.DefaultClient.Timeout)
}

func TestCollection_PathEscapesID(t *testing.T) {
	col := New("http://x").Events()
	assert.Equal(t, "/api/events", col.path(""))
	assert.Equal(t, "/api/events/a%2Fb", col.path("a/b"))
}
