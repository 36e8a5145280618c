package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"eventwise/models"
	"eventwise/monitoring"
	"eventwise/services"
	"eventwise/store"
)

// ErrNoWebhookSecret rejects all callbacks when the shared secret is not
// configured.
var ErrNoWebhookSecret = errors.New("webhook secret is not configured")

// Notifier pushes realtime messages to a user's channel. Nil-safe via the
// noop implementation.
type Notifier interface {
	NotifyUser(userID string, message map[string]any)
}

type NoopNotifier struct{}

func (NoopNotifier) NotifyUser(string, map[string]any) {}

// Processor reconciles gateway webhook events against local subscription,
// payment and ticket state.
type Processor struct {
	webhookSecret string
	gateway       SubscriptionFetcher
	ledger        *Ledger
	users         *services.UserService
	subscriptions *services.SubscriptionService
	payments      *services.PaymentService
	tickets       *services.TicketService
	notifier      Notifier
}

func NewProcessor(
	webhookSecret string,
	gateway SubscriptionFetcher,
	ledger *Ledger,
	users *services.UserService,
	subscriptions *services.SubscriptionService,
	payments *services.PaymentService,
	tickets *services.TicketService,
	notifier Notifier,
) *Processor {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Processor{
		webhookSecret: webhookSecret,
		gateway:       gateway,
		ledger:        ledger,
		users:         users,
		subscriptions: subscriptions,
		payments:      payments,
		tickets:       tickets,
		notifier:      notifier,
	}
}

// VerifyAndParse checks the payload signature against the shared secret.
func (p *Processor) VerifyAndParse(payload []byte, signatureHeader string) (stripe.Event, error) {
	if p.webhookSecret == "" {
		return stripe.Event{}, ErrNoWebhookSecret
	}
	return webhook.ConstructEvent(payload, signatureHeader, p.webhookSecret)
}

// Process applies one verified gateway event. Duplicate deliveries are
// short-circuited through the event-id ledger before any side effect runs.
// A returned error means the gateway should redeliver; successfully handled
// events are recorded in the ledger only after their side effects land.
func (p *Processor) Process(ctx context.Context, event stripe.Event) error {
	eventType := string(event.Type)

	seen, err := p.ledger.Seen(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("ledger lookup: %w", err)
	}
	if seen {
		slog.Info("webhook event already processed, acknowledging", "eventId", event.ID, "type", eventType)
		monitoring.TrackWebhookEvent(eventType, "duplicate")
		return nil
	}

	switch eventType {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("decode checkout session: %w", err)
		}
		if err := p.handleCheckoutCompleted(ctx, &session); err != nil {
			monitoring.TrackWebhookEvent(eventType, "error")
			return err
		}

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("decode payment intent: %w", err)
		}
		if err := p.handlePaymentFailed(ctx, &intent); err != nil {
			monitoring.TrackWebhookEvent(eventType, "error")
			return err
		}

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		if err := p.handleSubscriptionChanged(ctx, &sub); err != nil {
			monitoring.TrackWebhookEvent(eventType, "error")
			return err
		}

	case "payment_intent.succeeded":
		// Already handled via checkout.session.completed.

	default:
		slog.Info("unhandled webhook event type", "type", eventType)
		monitoring.TrackWebhookEvent(eventType, "ignored")
		return nil
	}

	monitoring.TrackWebhookEvent(eventType, "processed")
	if err := p.ledger.Record(ctx, event.ID, eventType); err != nil {
		// The side effects landed; a ledger write failure only risks one
		// duplicate application on redelivery.
		slog.Error("failed to record webhook event in ledger", "eventId", event.ID, "error", err)
	}
	return nil
}

func (p *Processor) handleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	userID := session.Metadata["userId"]
	if userID == "" {
		slog.Error("checkout session has no userId metadata", "session", session.ID)
		return nil
	}

	if session.Mode == stripe.CheckoutSessionModeSubscription {
		return p.reconcileSubscriptionCheckout(ctx, session, userID)
	}
	return p.recordTicketPayment(ctx, session, userID)
}

func (p *Processor) reconcileSubscriptionCheckout(ctx context.Context, session *stripe.CheckoutSession, userID string) error {
	if session.Subscription == nil {
		return fmt.Errorf("subscription checkout %s has no subscription reference", session.ID)
	}

	sub, err := p.gateway.GetSubscription(ctx, session.Subscription.ID)
	if err != nil {
		return err
	}

	plan := planFromSubscription(sub)
	status := "trialing"
	if sub.Status == stripe.SubscriptionStatusActive {
		status = "active"
	}

	customerID := ""
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}

	local := &models.Subscription{
		UserID:               userID,
		Plan:                 plan,
		StripeSubscriptionID: sub.ID,
		StripeCustomerID:     customerID,
		Status:               status,
		CurrentPeriodStart:   unixOrNow(sub.CurrentPeriodStart),
		CurrentPeriodEnd:     unixOrNow(sub.CurrentPeriodEnd),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
	}

	subscriptionID, err := p.subscriptions.Upsert(ctx, local)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	user, err := p.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user != nil {
		err = p.users.Update(ctx, userID, store.Document{
			"subscriptionStatus": plan,
			"subscriptionId":     subscriptionID,
			"stripeCustomerId":   customerID,
		})
		if err != nil {
			return fmt.Errorf("mirror plan onto user %s: %w", userID, err)
		}
	}

	p.notifier.NotifyUser(userID, map[string]any{
		"type": "subscription_activated",
		"plan": plan,
	})
	return nil
}

func (p *Processor) recordTicketPayment(ctx context.Context, session *stripe.CheckoutSession, userID string) error {
	currency := string(session.Currency)
	if currency == "" {
		currency = "usd"
	}

	paymentIntentID := ""
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	payment := &models.Payment{
		UserID:                userID,
		EventID:               session.Metadata["eventId"],
		Type:                  "ticket",
		Amount:                services.AmountFromMinorUnits(session.AmountTotal),
		Currency:              currency,
		Status:                "succeeded",
		StripePaymentIntentID: paymentIntentID,
	}
	if _, err := p.payments.Create(ctx, payment); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	if paymentIntentID != "" {
		if err := p.tickets.ConfirmByPaymentIntent(ctx, paymentIntentID); err != nil {
			return fmt.Errorf("confirm ticket: %w", err)
		}
	}

	p.notifier.NotifyUser(userID, map[string]any{
		"type":   "payment_succeeded",
		"amount": payment.Amount,
	})
	return nil
}

func (p *Processor) handlePaymentFailed(ctx context.Context, intent *stripe.PaymentIntent) error {
	userID := intent.Metadata["userId"]
	if userID == "" {
		return nil
	}

	payment := &models.Payment{
		UserID:                userID,
		EventID:               intent.Metadata["eventId"],
		Type:                  "ticket",
		Amount:                services.AmountFromMinorUnits(intent.Amount),
		Currency:              string(intent.Currency),
		Status:                "failed",
		StripePaymentIntentID: intent.ID,
	}
	if _, err := p.payments.Create(ctx, payment); err != nil {
		return fmt.Errorf("record failed payment: %w", err)
	}

	p.notifier.NotifyUser(userID, map[string]any{
		"type": "payment_failed",
	})
	return nil
}

func (p *Processor) handleSubscriptionChanged(ctx context.Context, sub *stripe.Subscription) error {
	userID := sub.Metadata["userId"]
	if userID == "" {
		return nil
	}

	existing, err := p.subscriptions.ActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		slog.Info("subscription change for unknown local subscription", "userId", userID, "subscription", sub.ID)
		return nil
	}

	status := mapSubscriptionStatus(sub.Status)
	partial := store.Document{
		"status":            status,
		"cancelAtPeriodEnd": sub.CancelAtPeriodEnd,
	}
	if sub.CurrentPeriodStart > 0 {
		partial["currentPeriodStart"] = time.Unix(sub.CurrentPeriodStart, 0).UTC()
	}
	if sub.CurrentPeriodEnd > 0 {
		partial["currentPeriodEnd"] = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}
	if err := p.subscriptions.Update(ctx, existing.ID, partial); err != nil {
		return fmt.Errorf("update subscription %s: %w", existing.ID, err)
	}

	if status == "canceled" || status == "past_due" {
		if err := p.users.Update(ctx, userID, store.Document{"subscriptionStatus": "free"}); err != nil {
			return fmt.Errorf("downgrade user %s: %w", userID, err)
		}
		p.notifier.NotifyUser(userID, map[string]any{
			"type":   "subscription_ended",
			"status": status,
		})
	}
	return nil
}

func planFromSubscription(sub *stripe.Subscription) string {
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		if plan := sub.Items.Data[0].Price.Metadata["plan"]; plan != "" {
			return plan
		}
	}
	return "starter"
}

func mapSubscriptionStatus(status stripe.SubscriptionStatus) string {
	switch status {
	case stripe.SubscriptionStatusActive:
		return "active"
	case stripe.SubscriptionStatusCanceled:
		return "canceled"
	case stripe.SubscriptionStatusPastDue:
		return "past_due"
	default:
		return "trialing"
	}
}

func unixOrNow(ts int64) time.Time {
	if ts <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(ts, 0).UTC()
}
