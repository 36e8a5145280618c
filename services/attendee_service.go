package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"eventwise/models"
	"eventwise/store"
)

type AttendeeService struct {
	store store.Store
}

func NewAttendeeService(s store.Store) *AttendeeService {
	return &AttendeeService{store: s}
}

func (s *AttendeeService) Get(ctx context.Context, attendeeID string) (*models.Attendee, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionAttendees, attendeeID)
	if err != nil || doc == nil {
		return nil, err
	}
	var attendee models.Attendee
	if err := store.Decode(doc, &attendee); err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (s *AttendeeService) ListByEvent(ctx context.Context, eventID string) ([]models.Attendee, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionAttendees, store.Query{
		Filters: []store.Filter{store.Eq("eventId", eventID)},
	})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Attendee](docs)
}

func (s *AttendeeService) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*models.Attendee, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionAttendees, store.Query{
		Filters: []store.Filter{
			store.Eq("userId", userID),
			store.Eq("eventId", eventID),
		},
		Limit: 1,
	})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	var attendee models.Attendee
	if err := store.Decode(docs[0], &attendee); err != nil {
		return nil, err
	}
	return &attendee, nil
}

// FindByInterest returns attendees with at least one interest containing the
// given substring, case-insensitively. Backs the assistant's networking tool.
func (s *AttendeeService) FindByInterest(ctx context.Context, eventID, interest string) ([]models.Attendee, error) {
	attendees, err := s.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(interest)
	matched := attendees[:0]
	for _, a := range attendees {
		for _, i := range a.Interests {
			if strings.Contains(strings.ToLower(i), needle) {
				matched = append(matched, a)
				break
			}
		}
	}
	return matched, nil
}

func (s *AttendeeService) Create(ctx context.Context, attendee *models.Attendee) (string, error) {
	if attendee.Interests == nil {
		attendee.Interests = []string{}
	}
	if attendee.PersonalityTraits == nil {
		attendee.PersonalityTraits = []string{}
	}
	if attendee.Connections == nil {
		attendee.Connections = []string{}
	}
	if attendee.SessionsAttended == nil {
		attendee.SessionsAttended = []string{}
	}

	doc, err := store.ToDocument(attendee)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, store.CollectionAttendees, doc, "")
}

func (s *AttendeeService) Update(ctx context.Context, attendeeID string, partial store.Document) error {
	return s.store.Update(ctx, store.CollectionAttendees, attendeeID, partial)
}

// AddConnection appends the connected attendee id, deduplicated. Calling it
// twice leaves the connection set containing the id exactly once. A missing
// attendee is a no-op.
func (s *AttendeeService) AddConnection(ctx context.Context, attendeeID, connectedAttendeeID string) error {
	err := s.store.Mutate(ctx, store.CollectionAttendees, attendeeID, func(doc store.Document) (store.Document, error) {
		var attendee models.Attendee
		if err := store.Decode(doc, &attendee); err != nil {
			return nil, err
		}
		if slices.Contains(attendee.Connections, connectedAttendeeID) {
			return nil, nil
		}
		return store.Document{
			"connections": append(attendee.Connections, connectedAttendeeID),
		}, nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// AddPoints accumulates points and returns the attendee with the new total,
// so callers can feed the leaderboard.
func (s *AttendeeService) AddPoints(ctx context.Context, attendeeID string, points int) (*models.Attendee, error) {
	var updated models.Attendee
	err := s.store.Mutate(ctx, store.CollectionAttendees, attendeeID, func(doc store.Document) (store.Document, error) {
		if err := store.Decode(doc, &updated); err != nil {
			return nil, err
		}
		updated.Points += points
		return store.Document{"points": updated.Points}, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}
