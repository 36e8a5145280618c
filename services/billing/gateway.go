package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// SubscriptionFetcher is the slice of the gateway the webhook processor
// needs; tests substitute it.
type SubscriptionFetcher interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
}

// StripeGateway wraps the Stripe API client. It is constructed once at
// startup and injected wherever checkout or subscription calls are made.
type StripeGateway struct {
	api    *client.API
	appURL string
}

func NewStripeGateway(secretKey, appURL string) *StripeGateway {
	return &StripeGateway{
		api:    client.New(secretKey, nil),
		appURL: appURL,
	}
}

type CheckoutParams struct {
	PriceID string
	UserID  string
	Email   string
}

// CreateCheckoutSession opens a one-time payment checkout. The user id and
// email ride along as metadata for webhook correlation.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(g.appURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.appURL + "/payment/cancel"),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())
	params.AddMetadata("userId", p.UserID)
	if p.Email != "" {
		params.CustomerEmail = stripe.String(p.Email)
		params.AddMetadata("email", p.Email)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return session, nil
}

// CreateSubscriptionCheckout opens a subscription checkout. Metadata is set
// on both the session and the subscription so lifecycle webhooks can find
// the user.
func (g *StripeGateway) CreateSubscriptionCheckout(ctx context.Context, p CheckoutParams) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(g.appURL + "/subscription/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.appURL + "/subscription/cancel"),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"userId": p.UserID},
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())
	params.AddMetadata("userId", p.UserID)
	if p.Email != "" {
		params.CustomerEmail = stripe.String(p.Email)
		params.AddMetadata("email", p.Email)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create subscription checkout: %w", err)
	}
	return session, nil
}

type PaymentIntentParams struct {
	AmountMinor int64
	UserID      string
	EventID     string
	TicketType  string
}

// CreatePaymentIntent starts a direct ticket payment, amount in minor units.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.AmountMinor),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())
	params.AddMetadata("userId", p.UserID)
	params.AddMetadata("eventId", p.EventID)
	params.AddMetadata("ticketType", p.TicketType)

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return intent, nil
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := g.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", subscriptionID, err)
	}
	return sub, nil
}

// SetCancelAtPeriodEnd flips the subscription's end-of-period cancellation
// flag (cancel and resume actions).
func (g *StripeGateway) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}
	params.Context = ctx

	if _, err := g.api.Subscriptions.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("update subscription %s: %w", subscriptionID, err)
	}
	return nil
}

// ChangePlan swaps the subscription's price item, invoicing the proration
// immediately.
func (g *StripeGateway) ChangePlan(ctx context.Context, subscriptionID, newPriceID string) error {
	current, err := g.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if current.Items == nil || len(current.Items.Data) == 0 {
		return fmt.Errorf("subscription %s has no items", subscriptionID)
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(current.Items.Data[0].ID),
				Price: stripe.String(newPriceID),
			},
		},
		ProrationBehavior: stripe.String("always_invoice"),
	}
	params.Context = ctx

	if _, err := g.api.Subscriptions.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("change plan for %s: %w", subscriptionID, err)
	}
	return nil
}
