package billing

import (
	"context"
	"time"

	"eventwise/store"
)

const providerStripe = "stripe"

// Ledger records processed gateway event ids so redelivered webhooks are
// acknowledged without reapplying their side effects.
type Ledger struct {
	store store.Store
}

func NewLedger(s store.Store) *Ledger {
	return &Ledger{store: s}
}

func (l *Ledger) Seen(ctx context.Context, providerEventID string) (bool, error) {
	docs, err := l.store.GetMany(ctx, store.CollectionWebhookEvents, store.Query{
		Filters: []store.Filter{
			store.Eq("provider", providerStripe),
			store.Eq("providerEventId", providerEventID),
		},
		Limit: 1,
	})
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

func (l *Ledger) Record(ctx context.Context, providerEventID, eventType string) error {
	_, err := l.store.Create(ctx, store.CollectionWebhookEvents, store.Document{
		"provider":        providerStripe,
		"providerEventId": providerEventID,
		"eventType":       eventType,
		"processedAt":     time.Now().UTC(),
	}, "")
	return err
}
