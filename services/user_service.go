package services

import (
	"context"

	"eventwise/models"
	"eventwise/store"
)

type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionProfiles, userID)
	if err != nil || doc == nil {
		return nil, err
	}
	var user models.UserProfile
	if err := store.Decode(doc, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionProfiles, store.Query{
		Filters: []store.Filter{store.Eq("email", email)},
		Limit:   1,
	})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	var user models.UserProfile
	if err := store.Decode(docs[0], &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create stores a profile under the caller-provided user id (the identity
// provider's id). Role defaults to attendee, subscription to free.
func (s *UserService) Create(ctx context.Context, userID string, user *models.UserProfile) (string, error) {
	if user.Role == "" {
		user.Role = "attendee"
	}
	if user.SubscriptionStatus == "" {
		user.SubscriptionStatus = "free"
	}
	if user.Interests == nil {
		user.Interests = []string{}
	}

	doc, err := store.ToDocument(user)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, store.CollectionProfiles, doc, userID)
}

func (s *UserService) Update(ctx context.Context, userID string, partial store.Document) error {
	return s.store.Update(ctx, store.CollectionProfiles, userID, partial)
}

func (s *UserService) List(ctx context.Context) ([]models.UserProfile, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionProfiles, store.Query{Sort: "-createdAt"})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.UserProfile](docs)
}
