package services

import (
	"context"
	"errors"
	"time"

	"eventwise/models"
	"eventwise/store"
)

// ErrInvalidSchedule rejects events whose window is empty or inverted.
var ErrInvalidSchedule = errors.New("startDate must be before endDate")

type EventService struct {
	store store.Store
}

func NewEventService(s store.Store) *EventService {
	return &EventService{store: s}
}

func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionEvents, eventID)
	if err != nil || doc == nil {
		return nil, err
	}
	var event models.Event
	if err := store.Decode(doc, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) ListByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionEvents, store.Query{
		Filters: []store.Filter{store.Eq("organizerId", organizerID)},
		Sort:    "-createdAt",
	})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Event](docs)
}

// ListUpcoming returns events starting within the given horizon, soonest
// first. Backs the trending endpoint.
func (s *EventService) ListUpcoming(ctx context.Context, horizon time.Duration) ([]models.Event, error) {
	now := time.Now().UTC()
	docs, err := s.store.GetMany(ctx, store.CollectionEvents, store.Query{
		Filters: []store.Filter{
			store.Gte("startDate", now),
			store.Lte("startDate", now.Add(horizon)),
		},
		Sort: "startDate",
	})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Event](docs)
}

func (s *EventService) Create(ctx context.Context, event *models.Event) (string, error) {
	if !event.StartDate.Before(event.EndDate) {
		return "", ErrInvalidSchedule
	}

	doc, err := store.ToDocument(event)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, store.CollectionEvents, doc, "")
}

// Update re-validates the schedule window whenever either end of it moves.
func (s *EventService) Update(ctx context.Context, eventID string, partial store.Document) error {
	_, hasStart := partial["startDate"]
	_, hasEnd := partial["endDate"]
	if hasStart || hasEnd {
		current, err := s.Get(ctx, eventID)
		if err != nil {
			return err
		}
		if current == nil {
			return store.ErrNotFound
		}

		start, end := current.StartDate, current.EndDate
		if hasStart {
			t, ok := parseTimeValue(partial["startDate"])
			if !ok {
				return ErrInvalidSchedule
			}
			start = t
		}
		if hasEnd {
			t, ok := parseTimeValue(partial["endDate"])
			if !ok {
				return ErrInvalidSchedule
			}
			end = t
		}
		if !start.Before(end) {
			return ErrInvalidSchedule
		}
	}

	return s.store.Update(ctx, store.CollectionEvents, eventID, partial)
}

func (s *EventService) Delete(ctx context.Context, eventID string) error {
	// No cascade: dependent sessions, attendees and sponsors keep their
	// eventId references.
	return s.store.Delete(ctx, store.CollectionEvents, eventID)
}

func parseTimeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
