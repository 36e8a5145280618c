package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// Derived state: leaderboard entries and the processed-webhook ledger.
func init() {
	m.Register(func(app core.App) error {
		leaderboards := core.NewBaseCollection("leaderboards")
		leaderboards.Fields.Add(
			&core.TextField{Name: "userId", Required: true},
			&core.TextField{Name: "eventId", Required: true},
			&core.TextField{Name: "name"},
			&core.TextField{Name: "avatar"},
			&core.NumberField{Name: "points"},
			&core.NumberField{Name: "rank"},
			&core.SelectField{Name: "change", Values: []string{"up", "down", "same"}, MaxSelect: 1},
			&core.DateField{Name: "lastUpdated"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		if err := app.Save(leaderboards); err != nil {
			return err
		}

		webhookEvents := core.NewBaseCollection("webhookEvents")
		webhookEvents.Fields.Add(
			&core.TextField{Name: "provider", Required: true},
			&core.TextField{Name: "providerEventId", Required: true},
			&core.TextField{Name: "eventType"},
			&core.DateField{Name: "processedAt"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		return app.Save(webhookEvents)
	}, func(app core.App) error {
		for _, name := range []string{"webhookEvents", "leaderboards"} {
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
