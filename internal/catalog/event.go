package catalog

import "github.com/calloway-dev/formflow/internal/domain"

// eventConfig has templates but no wizard, so new sessions open in the
// template-gallery-then-form mode.
func eventConfig() *domain.EntityConfig {
	return &domain.EntityConfig{
		Type:            "event",
		Title:           "Create an event",
		Subtitle:        "Bring people together, with or without ticket sales.",
		Theme:           "violet",
		APIEndpoint:     "/api/events",
		SuccessRedirect: "/events/[id]",
		DefaultValues: map[string]any{
			"event_kind": "in_person",
			"is_paid":    false,
		},
		Groups: []domain.FieldGroup{
			{
				Title: "Event",
				Fields: []domain.FieldDefinition{
					{Name: "title", Label: "Event name", Kind: domain.InputText, Required: true, ColSpan: 2},
					{Name: "description", Label: "Description", Kind: domain.InputTextarea, Required: true, ColSpan: 2},
					{
						Name: "event_kind", Label: "Format", Kind: domain.InputRadio, Required: true,
						Options: []domain.Option{
							{Value: "in_person", Label: "In person"},
							{Value: "online", Label: "Online"},
							{Value: "hybrid", Label: "Hybrid"},
						},
					},
					{Name: "starts_at", Label: "Start", Kind: domain.InputDate, Required: true},
					{Name: "ends_at", Label: "End", Kind: domain.InputDate},
				},
			},
			{
				Title:       "Venue",
				VisibleWhen: &domain.Condition{Field: "event_kind", Values: []any{"in_person", "hybrid"}},
				Fields: []domain.FieldDefinition{
					{Name: "venue_name", Label: "Venue", Kind: domain.InputText},
					{Name: "venue_address", Label: "Address", Kind: domain.InputAddress, ColSpan: 2},
				},
			},
			{
				Title:       "Streaming",
				VisibleWhen: &domain.Condition{Field: "event_kind", Values: []any{"online", "hybrid"}},
				Fields: []domain.FieldDefinition{
					{Name: "stream_url", Label: "Stream link", Kind: domain.InputURL, ColSpan: 2},
				},
			},
			{
				Title: "Tickets",
				Fields: []domain.FieldDefinition{
					{Name: "is_paid", Label: "Paid event", Kind: domain.InputBoolean},
					{Name: "ticket_price", Label: "Ticket price", Kind: domain.InputNumber, Min: ptr(0),
						VisibleWhen: &domain.Condition{Field: "is_paid", Value: true}},
					{Name: "currency", Label: "Currency", Kind: domain.InputCurrency, Options: currencyOptions(),
						VisibleWhen: &domain.Condition{Field: "is_paid", Value: true}},
					{Name: "capacity", Label: "Capacity", Kind: domain.InputNumber, Min: ptr(1)},
				},
			},
		},
		Guidance: map[string]domain.Guidance{
			"starts_at": {
				Title: "Scheduling",
				Body:  "Events published at least two weeks ahead fill noticeably better.",
			},
		},
		Templates: []domain.Template{
			{
				ID: "meetup", Name: "Community meetup", Icon: "🤝",
				Tagline: "Free, in person, informal",
				Defaults: map[string]any{
					"event_kind": "in_person",
					"is_paid":    false,
				},
			},
			{
				ID: "workshop", Name: "Paid workshop", Icon: "🛠️",
				Tagline: "Ticketed hands-on session",
				Defaults: map[string]any{
					"event_kind":   "in_person",
					"is_paid":      true,
					"ticket_price": 25,
					"capacity":     20,
				},
			},
			{
				ID: "webinar", Name: "Online talk", Icon: "💻",
				Tagline: "Free stream with open capacity",
				Defaults: map[string]any{
					"event_kind": "online",
					"is_paid":    false,
				},
			},
		},
	}
}
