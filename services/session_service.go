package services

import (
	"context"
	"time"

	"eventwise/models"
	"eventwise/store"
)

type SessionService struct {
	store store.Store
}

func NewSessionService(s store.Store) *SessionService {
	return &SessionService{store: s}
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionSessions, sessionID)
	if err != nil || doc == nil {
		return nil, err
	}
	var session models.Session
	if err := store.Decode(doc, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) ListByEvent(ctx context.Context, eventID string) ([]models.Session, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionSessions, store.Query{
		Filters: []store.Filter{store.Eq("eventId", eventID)},
		Sort:    "startTime",
	})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Session](docs)
}

// UpcomingWithin returns sessions starting inside the next N minutes,
// soonest first. The assistant's live-sessions tool queries this.
func (s *SessionService) UpcomingWithin(ctx context.Context, eventID string, minutes int) ([]models.Session, error) {
	now := time.Now().UTC()
	docs, err := s.store.GetMany(ctx, store.CollectionSessions, store.Query{
		Filters: []store.Filter{
			store.Eq("eventId", eventID),
			store.Gte("startTime", now),
			store.Lte("startTime", now.Add(time.Duration(minutes)*time.Minute)),
		},
		Sort: "startTime",
	})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Session](docs)
}

func (s *SessionService) Create(ctx context.Context, session *models.Session) (string, error) {
	session.CurrentAttendees = 0
	if session.Tags == nil {
		session.Tags = []string{}
	}

	doc, err := store.ToDocument(session)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, store.CollectionSessions, doc, "")
}

func (s *SessionService) Update(ctx context.Context, sessionID string, partial store.Document) error {
	return s.store.Update(ctx, store.CollectionSessions, sessionID, partial)
}

func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, store.CollectionSessions, sessionID)
}
