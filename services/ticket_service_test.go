package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventwise/models"
	"eventwise/store"
)

func TestPriceWithFee(t *testing.T) {
	tests := []struct {
		ticketType    string
		expectedBase  float64
		expectedFee   float64
		expectedTotal float64
	}{
		{"general", 99, 3.96, 102.96},
		{"vip", 299, 11.96, 310.96},
		{"student", 49, 1.96, 50.96},
		{"mystery", 99, 3.96, 102.96}, // unknown types price as general
	}

	for _, tt := range tests {
		t.Run(tt.ticketType, func(t *testing.T) {
			base, fee, total := PriceWithFee(tt.ticketType)
			assert.Equal(t, tt.expectedBase, base)
			assert.Equal(t, tt.expectedFee, fee)
			assert.Equal(t, tt.expectedTotal, total)
		})
	}
}

func TestTicketService_ConfirmByPaymentIntent(t *testing.T) {
	svc := NewTicketService(store.NewMemoryStore())
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.Ticket{
		EventID:    "e1",
		UserID:     "u1",
		TicketType: "general",
		Status:     "pending",
		PaymentID:  "pi_1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmByPaymentIntent(ctx, "pi_1"))

	ticket, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", ticket.Status)
}

func TestTicketService_ConfirmByPaymentIntentMissingIsNoop(t *testing.T) {
	svc := NewTicketService(store.NewMemoryStore())

	assert.NoError(t, svc.ConfirmByPaymentIntent(context.Background(), "pi_unknown"))
}

func TestTicketService_ConfirmSkipsNonPendingTickets(t *testing.T) {
	svc := NewTicketService(store.NewMemoryStore())
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.Ticket{
		EventID:    "e1",
		UserID:     "u1",
		TicketType: "vip",
		Status:     "cancelled",
		PaymentID:  "pi_2",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmByPaymentIntent(ctx, "pi_2"))

	ticket, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", ticket.Status)
}

func TestAmountFromMinorUnits(t *testing.T) {
	assert.Equal(t, 99.0, AmountFromMinorUnits(9900))
	assert.Equal(t, 102.96, AmountFromMinorUnits(10296))
	assert.Equal(t, 0.0, AmountFromMinorUnits(0))
}
