package services

import (
	"context"

	"github.com/shopspring/decimal"

	"eventwise/models"
	"eventwise/store"
)

// Base ticket prices in major units.
var TicketPrices = map[string]float64{
	"general": 99,
	"vip":     299,
	"student": 49,
}

// transactionFeeRate is charged on top of the base price.
var transactionFeeRate = decimal.NewFromFloat(0.04)

type TicketService struct {
	store store.Store
}

func NewTicketService(s store.Store) *TicketService {
	return &TicketService{store: s}
}

func (s *TicketService) Get(ctx context.Context, ticketID string) (*models.Ticket, error) {
	doc, err := s.store.GetOne(ctx, store.CollectionTickets, ticketID)
	if err != nil || doc == nil {
		return nil, err
	}
	var ticket models.Ticket
	if err := store.Decode(doc, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *TicketService) ListByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionTickets, store.Query{
		Filters: []store.Filter{store.Eq("userId", userID)},
		Sort:    "-createdAt",
	})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Ticket](docs)
}

func (s *TicketService) ListByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	docs, err := s.store.GetMany(ctx, store.CollectionTickets, store.Query{
		Filters: []store.Filter{store.Eq("eventId", eventID)},
	})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Ticket](docs)
}

func (s *TicketService) Create(ctx context.Context, ticket *models.Ticket) (string, error) {
	doc, err := store.ToDocument(ticket)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, store.CollectionTickets, doc, "")
}

func (s *TicketService) Update(ctx context.Context, ticketID string, partial store.Document) error {
	return s.store.Update(ctx, store.CollectionTickets, ticketID, partial)
}

// ConfirmByPaymentIntent moves the pending ticket paid for by the given
// payment intent into confirmed state. Missing tickets are ignored.
func (s *TicketService) ConfirmByPaymentIntent(ctx context.Context, paymentIntentID string) error {
	docs, err := s.store.GetMany(ctx, store.CollectionTickets, store.Query{
		Filters: []store.Filter{
			store.Eq("paymentId", paymentIntentID),
			store.Eq("status", "pending"),
		},
		Limit: 1,
	})
	if err != nil || len(docs) == 0 {
		return err
	}
	id, _ := docs[0]["id"].(string)
	return s.store.Update(ctx, store.CollectionTickets, id, store.Document{"status": "confirmed"})
}

// PriceWithFee returns the base price for a ticket type plus the 4%
// transaction fee, rounded to cents. Unknown types price as general.
func PriceWithFee(ticketType string) (base, fee, total float64) {
	base, ok := TicketPrices[ticketType]
	if !ok {
		base = TicketPrices["general"]
	}

	baseDec := decimal.NewFromFloat(base)
	feeDec := baseDec.Mul(transactionFeeRate).Round(2)

	fee, _ = feeDec.Float64()
	total, _ = baseDec.Add(feeDec).Float64()
	return base, fee, total
}
