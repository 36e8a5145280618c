package services

import (
	"context"

	"eventwise/models"
	"eventwise/store"
)

type SubscriptionService struct {
	store store.Store
}

func NewSubscriptionService(s store.Store) *SubscriptionService {
	return &SubscriptionService{store: s}
}

func (s *SubscriptionService) Get(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionSubscriptions, subscriptionID)
	if err != nil || doc == nil {
		return nil, err
	}
	var sub models.Subscription
	if err := store.Decode(doc, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ActiveByUser returns the user's active subscription, if any. At most one
// subscription per user is active at a time.
func (s *SubscriptionService) ActiveByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionSubscriptions, store.Query{
		Filters: []store.Filter{
			store.Eq("userId", userID),
			store.Eq("status", "active"),
		},
		Limit: 1,
	})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	var sub models.Subscription
	if err := store.Decode(docs[0], &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ByUser returns the user's most recent subscription regardless of status.
func (s *SubscriptionService) ByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionSubscriptions, store.Query{
		Filters: []store.Filter{store.Eq("userId", userID)},
		Sort:    "-createdAt",
		Limit:   1,
	})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	var sub models.Subscription
	if err := store.Decode(docs[0], &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert writes the subscription keyed on its external id, so redelivered
// webhooks update the existing record instead of duplicating it.
func (s *SubscriptionService) Upsert(ctx context.Context, sub *models.Subscription) (string, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionSubscriptions, store.Query{
		Filters: []store.Filter{store.Eq("stripeSubscriptionId", sub.StripeSubscriptionID)},
		Limit:   1,
	})
	if err != nil {
		return "", err
	}

	doc, err := store.ToDocument(sub)
	if err != nil {
		return "", err
	}

	if len(docs) > 0 {
		existingID, _ := docs[0]["id"].(string)
		return existingID, s.store.Update(ctx, store.CollectionSubscriptions, existingID, doc)
	}
	return s.store.Create(ctx, store.CollectionSubscriptions, doc, "")
}

func (s *SubscriptionService) Update(ctx context.Context, subscriptionID string, partial store.Document) error {
	return s.store.Update(ctx, store.CollectionSubscriptions, subscriptionID, partial)
}
