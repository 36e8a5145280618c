package billing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"

	"eventwise/models"
	"eventwise/services"
	"eventwise/store"
)

type fakeGateway struct {
	subscription *stripe.Subscription
	err          error
}

func (f *fakeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	return f.subscription, f.err
}

type recordingNotifier struct {
	messages []map[string]any
}

func (r *recordingNotifier) NotifyUser(userID string, message map[string]any) {
	message["userId"] = userID
	r.messages = append(r.messages, message)
}

type processorFixture struct {
	store         *store.MemoryStore
	processor     *Processor
	users         *services.UserService
	subscriptions *services.SubscriptionService
	payments      *services.PaymentService
	tickets       *services.TicketService
	notifier      *recordingNotifier
}

func setupProcessor(t *testing.T, gateway SubscriptionFetcher) *processorFixture {
	t.Helper()

	mem := store.NewMemoryStore()
	users := services.NewUserService(mem)
	subscriptions := services.NewSubscriptionService(mem)
	payments := services.NewPaymentService(mem)
	tickets := services.NewTicketService(mem)
	notifier := &recordingNotifier{}

	processor := NewProcessor("whsec_test", gateway, NewLedger(mem), users, subscriptions, payments, tickets, notifier)

	_, err := users.Create(context.Background(), "user1", &models.UserProfile{
		Email: "dana@example.com",
		Name:  "Dana",
	})
	require.NoError(t, err)

	return &processorFixture{
		store:         mem,
		processor:     processor,
		users:         users,
		subscriptions: subscriptions,
		payments:      payments,
		tickets:       tickets,
		notifier:      notifier,
	}
}

func stripeEvent(t *testing.T, id, eventType string, object any) stripe.Event {
	t.Helper()

	raw, err := json.Marshal(object)
	require.NoError(t, err)

	return stripe.Event{
		ID:   id,
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestProcessor_SubscriptionCheckoutCompleted(t *testing.T) {
	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0)

	gateway := &fakeGateway{subscription: &stripe.Subscription{
		ID:                 "sub_1",
		Status:             stripe.SubscriptionStatusActive,
		CurrentPeriodStart: periodStart.Unix(),
		CurrentPeriodEnd:   periodEnd.Unix(),
		Customer:           &stripe.Customer{ID: "cus_1"},
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{Price: &stripe.Price{Metadata: map[string]string{"plan": "professional"}}},
			},
		},
	}}
	f := setupProcessor(t, gateway)
	ctx := context.Background()

	event := stripeEvent(t, "evt_1", "checkout.session.completed", map[string]any{
		"id":           "cs_1",
		"mode":         "subscription",
		"subscription": map[string]any{"id": "sub_1"},
		"metadata":     map[string]string{"userId": "user1"},
	})

	require.NoError(t, f.processor.Process(ctx, event))

	sub, err := f.subscriptions.ActiveByUser(ctx, "user1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "professional", sub.Plan)
	assert.Equal(t, "sub_1", sub.StripeSubscriptionID)
	assert.Equal(t, "cus_1", sub.StripeCustomerID)
	assert.Equal(t, periodEnd, sub.CurrentPeriodEnd)

	user, err := f.users.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "professional", user.SubscriptionStatus)
	assert.Equal(t, "cus_1", user.StripeCustomerID)

	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, "subscription_activated", f.notifier.messages[0]["type"])
}

func TestProcessor_TicketCheckoutCompleted(t *testing.T) {
	f := setupProcessor(t, &fakeGateway{})
	ctx := context.Background()

	ticketID, err := f.tickets.Create(ctx, &models.Ticket{
		EventID:    "evt1",
		UserID:     "user1",
		TicketType: "general",
		Status:     "pending",
		PaymentID:  "pi_1",
	})
	require.NoError(t, err)

	event := stripeEvent(t, "evt_2", "checkout.session.completed", map[string]any{
		"id":             "cs_2",
		"mode":           "payment",
		"amount_total":   9900,
		"currency":       "usd",
		"payment_intent": map[string]any{"id": "pi_1"},
		"metadata":       map[string]string{"userId": "user1", "eventId": "evt1"},
	})

	require.NoError(t, f.processor.Process(ctx, event))

	payments, err := f.payments.ListByUser(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "succeeded", payments[0].Status)
	assert.Equal(t, 99.0, payments[0].Amount)
	assert.Equal(t, "pi_1", payments[0].StripePaymentIntentID)

	ticket, err := f.tickets.Get(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", ticket.Status)
}

func TestProcessor_PaymentFailed(t *testing.T) {
	f := setupProcessor(t, &fakeGateway{})
	ctx := context.Background()

	event := stripeEvent(t, "evt_3", "payment_intent.payment_failed", map[string]any{
		"id":       "pi_2",
		"amount":   10296,
		"currency": "usd",
		"metadata": map[string]string{"userId": "user1", "eventId": "evt1"},
	})

	require.NoError(t, f.processor.Process(ctx, event))

	payments, err := f.payments.ListByUser(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "failed", payments[0].Status)
	assert.InDelta(t, 102.96, payments[0].Amount, 0.001)
}

func TestProcessor_SubscriptionCanceledDowngradesUser(t *testing.T) {
	f := setupProcessor(t, &fakeGateway{})
	ctx := context.Background()

	_, err := f.subscriptions.Upsert(ctx, &models.Subscription{
		UserID:               "user1",
		Plan:                 "starter",
		StripeSubscriptionID: "sub_1",
		Status:               "active",
	})
	require.NoError(t, err)
	require.NoError(t, f.users.Update(ctx, "user1", store.Document{"subscriptionStatus": "starter"}))

	event := stripeEvent(t, "evt_4", "customer.subscription.deleted", map[string]any{
		"id":       "sub_1",
		"status":   "canceled",
		"metadata": map[string]string{"userId": "user1"},
	})

	require.NoError(t, f.processor.Process(ctx, event))

	sub, err := f.subscriptions.ByUser(ctx, "user1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "canceled", sub.Status)

	user, err := f.users.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "free", user.SubscriptionStatus)

	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, "subscription_ended", f.notifier.messages[0]["type"])
}

func TestProcessor_DuplicateEventIsSkipped(t *testing.T) {
	f := setupProcessor(t, &fakeGateway{})
	ctx := context.Background()

	event := stripeEvent(t, "evt_5", "payment_intent.payment_failed", map[string]any{
		"id":       "pi_3",
		"amount":   4900,
		"currency": "usd",
		"metadata": map[string]string{"userId": "user1"},
	})

	require.NoError(t, f.processor.Process(ctx, event))
	require.NoError(t, f.processor.Process(ctx, event))

	payments, err := f.payments.ListByUser(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, payments, 1, "second delivery must not re-apply side effects")
}

func TestProcessor_UnknownEventTypeIgnored(t *testing.T) {
	f := setupProcessor(t, &fakeGateway{})

	event := stripeEvent(t, "evt_6", "invoice.finalized", map[string]any{"id": "in_1"})

	assert.NoError(t, f.processor.Process(context.Background(), event))
}

func TestProcessor_MissingUserMetadataIsAcknowledged(t *testing.T) {
	f := setupProcessor(t, &fakeGateway{})
	ctx := context.Background()

	event := stripeEvent(t, "evt_7", "checkout.session.completed", map[string]any{
		"id":   "cs_3",
		"mode": "payment",
	})

	require.NoError(t, f.processor.Process(ctx, event))

	payments, err := f.payments.ListByUser(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestProcessor_VerifyRequiresSecret(t *testing.T) {
	mem := store.NewMemoryStore()
	processor := NewProcessor("", &fakeGateway{}, NewLedger(mem),
		services.NewUserService(mem),
		services.NewSubscriptionService(mem),
		services.NewPaymentService(mem),
		services.NewTicketService(mem),
		nil,
	)

	_, err := processor.VerifyAndParse([]byte(`{}`), "t=1,v1=abc")
	assert.ErrorIs(t, err, ErrNoWebhookSecret)
}

func TestLedger_SeenAfterRecord(t *testing.T) {
	ledger := NewLedger(store.NewMemoryStore())
	ctx := context.Background()

	seen, err := ledger.Seen(ctx, "evt_x")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, ledger.Record(ctx, "evt_x", "checkout.session.completed"))

	seen, err = ledger.Seen(ctx, "evt_x")
	require.NoError(t, err)
	assert.True(t, seen)
}
