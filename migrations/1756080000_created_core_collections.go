package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// Core collections: user profiles, events, sessions and attendees.
// Timestamps are plain date fields stamped by the store layer.
func init() {
	m.Register(func(app core.App) error {
		profiles := core.NewBaseCollection("profiles")
		profiles.Fields.Add(
			&core.TextField{Name: "email", Required: true},
			&core.TextField{Name: "name", Required: true},
			&core.TextField{Name: "title"},
			&core.TextField{Name: "company"},
			&core.TextField{Name: "avatar"},
			&core.JSONField{Name: "interests"},
			&core.TextField{Name: "goals"},
			&core.SelectField{Name: "role", Values: []string{"attendee", "organizer", "speaker", "sponsor", "admin"}, MaxSelect: 1},
			&core.SelectField{Name: "subscriptionStatus", Values: []string{"free", "starter", "professional", "enterprise"}, MaxSelect: 1},
			&core.TextField{Name: "subscriptionId"},
			&core.TextField{Name: "stripeCustomerId"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		if err := app.Save(profiles); err != nil {
			return err
		}

		events := core.NewBaseCollection("events")
		events.Fields.Add(
			&core.TextField{Name: "organizerId", Required: true},
			&core.TextField{Name: "title", Required: true},
			&core.TextField{Name: "description"},
			&core.DateField{Name: "startDate", Required: true},
			&core.DateField{Name: "endDate", Required: true},
			&core.TextField{Name: "venue"},
			&core.TextField{Name: "venueMapUrl"},
			&core.JSONField{Name: "branding"},
			&core.JSONField{Name: "settings"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		if err := app.Save(events); err != nil {
			return err
		}

		sessions := core.NewBaseCollection("sessions")
		sessions.Fields.Add(
			&core.TextField{Name: "eventId", Required: true},
			&core.TextField{Name: "title", Required: true},
			&core.TextField{Name: "description"},
			&core.DateField{Name: "startTime", Required: true},
			&core.DateField{Name: "endTime"},
			&core.JSONField{Name: "tags"},
			&core.TextField{Name: "speakerId"},
			&core.TextField{Name: "speakerName"},
			&core.TextField{Name: "location"},
			&core.NumberField{Name: "maxAttendees"},
			&core.NumberField{Name: "currentAttendees"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		if err := app.Save(sessions); err != nil {
			return err
		}

		attendees := core.NewBaseCollection("attendees")
		attendees.Fields.Add(
			&core.TextField{Name: "userId", Required: true},
			&core.TextField{Name: "eventId", Required: true},
			&core.TextField{Name: "name"},
			&core.TextField{Name: "title"},
			&core.TextField{Name: "company"},
			&core.TextField{Name: "avatar"},
			&core.JSONField{Name: "interests"},
			&core.JSONField{Name: "personalityTraits"},
			&core.JSONField{Name: "connections"},
			&core.NumberField{Name: "points"},
			&core.JSONField{Name: "sessionsAttended"},
			&core.DateField{Name: "createdAt"},
			&core.DateField{Name: "updatedAt"},
		)
		return app.Save(attendees)
	}, func(app core.App) error {
		for _, name := range []string{"attendees", "sessions", "events", "profiles"} {
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
