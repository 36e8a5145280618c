package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventwise/models"
	"eventwise/store"
)

func TestEventService_CreateValidatesSchedule(t *testing.T) {
	svc := NewEventService(store.NewMemoryStore())
	ctx := context.Background()
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, &models.Event{
		OrganizerID: "org1",
		Title:       "Backwards",
		StartDate:   start,
		EndDate:     start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = svc.Create(ctx, &models.Event{
		OrganizerID: "org1",
		Title:       "Zero length",
		StartDate:   start,
		EndDate:     start,
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	id, err := svc.Create(ctx, &models.Event{
		OrganizerID: "org1",
		Title:       "Valid",
		StartDate:   start,
		EndDate:     start.Add(8 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestEventService_UpdateRevalidatesScheduleWindow(t *testing.T) {
	svc := NewEventService(store.NewMemoryStore())
	ctx := context.Background()
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

	id, err := svc.Create(ctx, &models.Event{
		OrganizerID: "org1",
		Title:       "Conf",
		StartDate:   start,
		EndDate:     start.Add(8 * time.Hour),
	})
	require.NoError(t, err)

	// Moving the start past the end must fail.
	err = svc.Update(ctx, id, store.Document{"startDate": start.Add(9 * time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	// Moving the end before the start must fail.
	err = svc.Update(ctx, id, store.Document{"endDate": start.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	// Moving both consistently is fine.
	err = svc.Update(ctx, id, store.Document{
		"startDate": start.AddDate(0, 0, 1),
		"endDate":   start.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	// Updates that do not touch the window skip validation.
	err = svc.Update(ctx, id, store.Document{"venue": "Hall B"})
	require.NoError(t, err)

	event, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hall B", event.Venue)
}

func TestEventService_ListUpcoming(t *testing.T) {
	svc := NewEventService(store.NewMemoryStore())
	ctx := context.Background()
	now := time.Now().UTC()

	mk := func(title string, startIn time.Duration) {
		_, err := svc.Create(ctx, &models.Event{
			OrganizerID: "org1",
			Title:       title,
			StartDate:   now.Add(startIn),
			EndDate:     now.Add(startIn + 4*time.Hour),
		})
		require.NoError(t, err)
	}

	mk("tomorrow", 24*time.Hour)
	mk("next month", 35*24*time.Hour)
	mk("in three days", 3*24*time.Hour)

	events, err := svc.ListUpcoming(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "tomorrow", events[0].Title)
	assert.Equal(t, "in three days", events[1].Title)
}

func TestEventService_GetMissing(t *testing.T) {
	svc := NewEventService(store.NewMemoryStore())

	event, err := svc.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, event)
}
