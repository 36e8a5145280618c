package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// Billing collections: subscriptions, payments, tickets and sponsors.
func init() {
	m.Register(func(app core.App) error {
		subscriptions := core.NewBaseCollection("subscriptions")
		subscriptions.Fields.Add(
			&core.TextField{Name: "userId", Required: true},
			&core.SelectField{Name: "plan", Values: []string{"starter", "professional", "enterprise"}, MaxSelect: 1},
			&core.TextField{Name: "stripeSubscriptionId"},
			&core.TextField{Name: "stripeCustomerId"},
			&core.SelectField{Name: "status", Values: []string{"active", "canceled", "past_due", "trialing"}, MaxSelect: 1},
			&core.DateField{Name: "currentPeriodStart"},
			&core.DateField{Name: "currentPeriodEnd"},
			&core.BoolField{Name: "cancelAtPeriodEnd"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		if err := app.Save(subscriptions); err != nil {
			return err
		}

		payments := core.NewBaseCollection("payments")
		payments.Fields.Add(
			&core.TextField{Name: "userId", Required: true},
			&core.TextField{Name: "eventId"},
			&core.SelectField{Name: "type", Values: []string{"ticket", "subscription", "sponsorship"}, MaxSelect: 1},
			&core.NumberField{Name: "amount"},
			&core.TextField{Name: "currency"},
			&core.SelectField{Name: "status", Values: []string{"pending", "succeeded", "failed", "refunded"}, MaxSelect: 1},
			&core.TextField{Name: "stripePaymentIntentId"},
			&core.TextField{Name: "ticketId"},
			&core.TextField{Name: "subscriptionId"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		if err := app.Save(payments); err != nil {
			return err
		}

		tickets := core.NewBaseCollection("tickets")
		tickets.Fields.Add(
			&core.TextField{Name: "eventId", Required: true},
			&core.TextField{Name: "userId", Required: true},
			&core.SelectField{Name: "ticketType", Values: []string{"general", "vip", "student"}, MaxSelect: 1},
			&core.NumberField{Name: "price"},
			&core.TextField{Name: "qrCode", Max: 100000}, // base64 PNG data URL
			&core.SelectField{Name: "status", Values: []string{"pending", "confirmed", "used", "cancelled"}, MaxSelect: 1},
			&core.TextField{Name: "paymentId"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		if err := app.Save(tickets); err != nil {
			return err
		}

		sponsors := core.NewBaseCollection("sponsors")
		sponsors.Fields.Add(
			&core.TextField{Name: "eventId", Required: true},
			&core.TextField{Name: "name", Required: true},
			&core.TextField{Name: "logoUrl"},
			&core.TextField{Name: "website"},
			&core.SelectField{Name: "tier", Values: []string{"gold", "silver", "bronze"}, MaxSelect: 1},
			&core.JSONField{Name: "placement"},
			&core.JSONField{Name: "materials"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		return app.Save(sponsors)
	}, func(app core.App) error {
		for _, name := range []string{"sponsors", "tickets", "payments", "subscriptions"} {
			collection, err := app.FindCollectionByNameOrId(name)
			if err != nil {
				continue
			}
			if err := app.Delete(collection); err != nil {
				return err
			}
		}
		return nil
	})
}
