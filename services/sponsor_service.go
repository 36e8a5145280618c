package services

import (
	"context"

	"eventwise/models"
	"eventwise/store"
)

type SponsorService struct {
	store store.Store
}

func NewSponsorService(s store.Store) *SponsorService {
	return &SponsorService{store: s}
}

func (s *SponsorService) Get(ctx context.Context, sponsorID string) (*models.Sponsor, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionSponsors, sponsorID)
	if err != nil || doc == nil {
		return nil, err
	}
	var sponsor models.Sponsor
	if err := store.Decode(doc, &sponsor); err != nil {
		return nil, err
	}
	return &sponsor, nil
}

func (s *SponsorService) ListByEvent(ctx context.Context, eventID string) ([]models.Sponsor, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionSponsors, store.Query{
		Filters: []store.Filter{store.Eq("eventId", eventID)},
	})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Sponsor](docs)
}

func (s *SponsorService) Create(ctx context.Context, sponsor *models.Sponsor) (string, error) {
	if sponsor.Placement == nil {
		sponsor.Placement = []string{}
	}

	doc, err := store.ToDocument(sponsor)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, store.CollectionSponsors, doc, "")
}

func (s *SponsorService) Update(ctx context.Context, sponsorID string, partial store.Document) error {
	return s.store.Update(ctx, store.CollectionSponsors, sponsorID, partial)
}

func (s *SponsorService) Delete(ctx context.Context, sponsorID string) error {
	return s.store.Delete(ctx, store.CollectionSponsors, sponsorID)
}
