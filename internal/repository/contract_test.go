package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory returns empty event and workshop stores plus an id that is
// well formed for the backend but not stored.
type storeFactory func(t *testing.T) (RecordRepository[models.Event], RecordRepository[models.Workshop], string)

func summit() *models.Event {
	return &models.Event{
		Record: models.Record{
			Title:       "AI Summit",
			Description: "Talks and demos",
			Date:        "2026-03-14",
			Time:        "09:00",
			Location:    "Hall A",
			Capacity:    100,
			Status:      models.StatusDraft,
		},
		Category: "Networking",
	}
}

// withoutTimestamps strips the store-managed times so records read at
// different moments compare on their client fields.
func withoutTimestamps(events []models.Event) []models.Event {
	out := make([]models.Event, len(events))
	for i, ev := range events {
		ev.CreatedAt, ev.UpdatedAt = time.Time{}, time.Time{}
		out[i] = ev
	}
	return out
}

func runRepositoryContract(t *testing.T, open storeFactory) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		events, workshops, _ := open(t)

		got, err := events.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		ws, err := workshops.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, ws)
	})

	t.Run("create assigns id and lists in insertion order", func(t *testing.T) {
		events, _, _ := open(t)

		first := summit()
		first.ID = "client-chosen"
		require.NoError(t, events.Create(ctx, first))
		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, "client-chosen", first.ID)

		second := summit()
		second.Title = "Ethics Panel"
		second.Category = "Ethics"
		require.NoError(t, events.Create(ctx, second))
		assert.NotEqual(t, first.ID, second.ID)

		got, err := events.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first.ID, got[0].ID)
		assert.Equal(t, "AI Summit", got[0].Title)
		assert.Equal(t, "Networking", got[0].Category)
		assert.Equal(t, second.ID, got[1].ID)
	})

	t.Run("replace overwrites every client field", func(t *testing.T) {
		events, _, _ := open(t)
		created := summit()
		require.NoError(t, events.Create(ctx, created))

		next := &models.Event{
			Record: models.Record{
				Title:      "AI Summit 2026",
				Location:   "Hall B",
				Capacity:   120,
				Registered: 45,
				Status:     models.StatusPublished,
				Featured:   true,
			},
		}
		stored, err := events.Replace(ctx, created.ID, next)
		require.NoError(t, err)

		assert.Equal(t, created.ID, stored.ID)
		assert.Equal(t, "AI Summit 2026", stored.Title)
		assert.Equal(t, 45, stored.Registered)
		assert.Equal(t, models.StatusPublished, stored.Status)
		assert.True(t, stored.Featured)
		// omitted fields are cleared, not merged
		assert.Empty(t, stored.Description)
		assert.Empty(t, stored.Date)
		assert.Empty(t, stored.Category)
		assert.WithinDuration(t, created.CreatedAt, stored.CreatedAt, time.Millisecond)

		got, err := events.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Hall B", got[0].Location)
	})

	t.Run("replace with the stored record is a round trip", func(t *testing.T) {
		events, _, _ := open(t)
		created := summit()
		created.Registered = 12
		created.Featured = true
		require.NoError(t, events.Create(ctx, created))

		listed, err := events.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		want := listed[0]

		same := want
		stored, err := events.Replace(ctx, want.ID, &same)
		require.NoError(t, err)

		assert.WithinDuration(t, want.CreatedAt, stored.CreatedAt, time.Millisecond)
		assert.Equal(t, withoutTimestamps([]models.Event{want}), withoutTimestamps([]models.Event{*stored}))
	})

	t.Run("unknown ids leave a populated collection unchanged", func(t *testing.T) {
		events, _, missing := open(t)
		first := summit()
		require.NoError(t, events.Create(ctx, first))
		second := summit()
		second.Title = "Ethics Panel"
		second.Category = "Ethics"
		require.NoError(t, events.Create(ctx, second))

		before, err := events.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, before, 2)

		for _, id := range []string{missing, "not-an-id"} {
			_, err = events.Replace(ctx, id, summit())
			assert.ErrorIs(t, err, ErrNotFound, id)
			_, err = events.Delete(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound, id)
		}

		after, err := events.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, withoutTimestamps(before), withoutTimestamps(after))
		for i := range before {
			assert.True(t, before[i].UpdatedAt.Equal(after[i].UpdatedAt), "updatedAt of %s changed", before[i].ID)
		}
	})

	t.Run("replace unknown id", func(t *testing.T) {
		events, _, missing := open(t)

		_, err := events.Replace(ctx, missing, summit())
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = events.Replace(ctx, "not-an-id", summit())
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := events.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("delete returns the removed record", func(t *testing.T) {
		events, _, _ := open(t)
		keep := summit()
		require.NoError(t, events.Create(ctx, keep))
		drop := summit()
		drop.Title = "Drop me"
		require.NoError(t, events.Create(ctx, drop))

		deleted, err := events.Delete(ctx, drop.ID)
		require.NoError(t, err)
		assert.Equal(t, drop.ID, deleted.ID)
		assert.Equal(t, "Drop me", deleted.Title)

		got, err := events.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, keep.ID, got[0].ID)

		_, err = events.Delete(ctx, drop.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		events, _, missing := open(t)

		_, err := events.Delete(ctx, missing)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = events.Delete(ctx, "%%%")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("collections are independent", func(t *testing.T) {
		events, workshops, _ := open(t)
		ev := summit()
		require.NoError(t, events.Create(ctx, ev))

		w := &models.Workshop{
			Record:   models.Record{Title: "Go 101", Location: "Lab", Capacity: 20, Status: models.StatusDraft},
			Level:    "Beginner",
			Duration: "3h",
		}
		require.NoError(t, workshops.Create(ctx, w))

		_, err := workshops.Delete(ctx, ev.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		ws, err := workshops.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, ws, 1)
		assert.Equal(t, "Beginner", ws[0].Level)
		assert.Equal(t, "3h", ws[0].Duration)

		evs, err := events.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, evs, 1)
	})
}
