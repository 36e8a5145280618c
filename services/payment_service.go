package services

import (
	"context"

	"github.com/shopspring/decimal"

	"eventwise/models"
	"eventwise/store"
)

type PaymentService struct {
	store store.Store
}

func NewPaymentService(s store.Store) *PaymentService {
	return &PaymentService{store: s}
}

func (s *PaymentService) Get(ctx context.Context, paymentID string) (*models.Payment, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionPayments, paymentID)
	if err != nil || doc == nil {
		return nil, err
	}
	var payment models.Payment
	if err := store.Decode(doc, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentService) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionPayments, store.Query{
		Filters: []store.Filter{store.Eq("userId", userID)},
		Sort:    "-createdAt",
	})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Payment](docs)
}

// Payments are append-only records of attempts and results.
func (s *PaymentService) Create(ctx context.Context, payment *models.Payment) (string, error) {
	doc, err := store.ToDocument(payment)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, store.CollectionPayments, doc, "")
}

func (s *PaymentService) Update(ctx context.Context, paymentID string, partial store.Document) error {
	return s.store.Update(ctx, store.CollectionPayments, paymentID, partial)
}

// AmountFromMinorUnits converts a gateway amount (cents) to major units.
func AmountFromMinorUnits(minor int64) float64 {
	f, _ := decimal.NewFromInt(minor).Div(decimal.NewFromInt(100)).Float64()
	return f
}
