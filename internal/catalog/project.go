package catalog

import "github.com/calloway-dev/formflow/internal/domain"

// projectConfig is the flagship entity: full wizard with a template step,
// slug derivation from the title, and a conditional funding section.
func projectConfig() *domain.EntityConfig {
	return &domain.EntityConfig{
		Type:            "project",
		Title:           "Create a project",
		Subtitle:        "Raise funds for something your community cares about.",
		Theme:           "emerald",
		APIEndpoint:     "/api/projects",
		SuccessRedirect: "/projects/:slug",
		SlugSource:      "title",
		DefaultValues: map[string]any{
			"goal_amount":  0,
			"category":     "community",
			"funding_type": "one_time",
			"visibility":   "public",
		},
		Groups: []domain.FieldGroup{
			{
				Title:       "Basics",
				Description: "What is your project and who is it for?",
				Fields: []domain.FieldDefinition{
					{Name: "title", Label: "Project title", Kind: domain.InputText, Required: true, ColSpan: 2},
					{Name: "tagline", Label: "Tagline", Kind: domain.InputText, Placeholder: "One sentence that sells it", ColSpan: 2},
					{Name: "description", Label: "Description", Kind: domain.InputTextarea, Required: true, ColSpan: 2},
					{
						Name: "category", Label: "Category", Kind: domain.InputSelect, Required: true,
						Options: []domain.Option{
							{Value: "community", Label: "Community"},
							{Value: "environment", Label: "Environment"},
							{Value: "art", Label: "Art & Culture"},
							{Value: "tech", Label: "Technology"},
							{Value: "education", Label: "Education"},
						},
					},
					{Name: "cover_image_url", Label: "Cover image URL", Kind: domain.InputURL},
				},
			},
			{
				Title: "Funding",
				Fields: []domain.FieldDefinition{
					{
						Name: "funding_type", Label: "Funding type", Kind: domain.InputRadio, Required: true,
						Options: []domain.Option{
							{Value: "one_time", Label: "One-time goal"},
							{Value: "recurring", Label: "Recurring support"},
						},
					},
					{Name: "goal_amount", Label: "Goal amount", Kind: domain.InputNumber, Required: true, Min: ptr(0), Max: ptr(10_000_000)},
					{Name: "currency", Label: "Currency", Kind: domain.InputCurrency, Required: true, Options: currencyOptions()},
					{
						Name: "recurring_interval", Label: "Billing interval", Kind: domain.InputSelect,
						VisibleWhen: &domain.Condition{Field: "funding_type", Value: "recurring"},
						Options: []domain.Option{
							{Value: "monthly", Label: "Monthly"},
							{Value: "quarterly", Label: "Quarterly"},
						},
					},
					{Name: "deadline", Label: "Funding deadline", Kind: domain.InputDate,
						VisibleWhen: &domain.Condition{Field: "funding_type", Value: "one_time"}},
				},
			},
			{
				Title: "Details",
				Fields: []domain.FieldDefinition{
					{Name: "location", Label: "Location", Kind: domain.InputAddress, ColSpan: 2},
					{Name: "website", Label: "Website", Kind: domain.InputURL},
					{Name: "contact_email", Label: "Contact email", Kind: domain.InputEmail},
					{Name: "tags", Label: "Tags", Kind: domain.InputTags, ColSpan: 2},
					{
						Name: "visibility", Label: "Visibility", Kind: domain.InputRadio,
						Options: []domain.Option{
							{Value: "public", Label: "Public"},
							{Value: "unlisted", Label: "Unlisted"},
						},
					},
				},
			},
		},
		Guidance: map[string]domain.Guidance{
			"title": {
				Title: "Naming your project",
				Body:  "Short, concrete names raise more. Say what you are building, not how.",
				Examples: []string{
					"Solar roof for the Riedbach school",
					"Community bread oven in Lausanne",
				},
			},
			"goal_amount": {
				Title: "Setting a goal",
				Body:  "Pick the minimum you need to deliver. You can keep collecting after the goal is reached.",
			},
			"description": {
				Title: "Telling your story",
				Body:  "Explain the problem, your plan, and what the money buys. Budget breakdowns build trust.",
			},
		},
		InfoBanner: &domain.Banner{
			Kind:  "info",
			Title: "Projects are reviewed",
			Body:  "New projects are checked by our team before they appear in search. This usually takes less than a day.",
		},
		Templates: []domain.Template{
			{
				ID: "neighborhood", Name: "Neighborhood initiative", Icon: "🏘️", Category: "community",
				Tagline: "A local project with a one-time funding goal",
				Defaults: map[string]any{
					"category":     "community",
					"funding_type": "one_time",
					"goal_amount":  5000,
					"tags":         []any{"local", "community"},
				},
			},
			{
				ID: "climate", Name: "Climate action", Icon: "🌱", Category: "environment",
				Tagline: "Environmental project with recurring supporter funding",
				Defaults: map[string]any{
					"category":     "environment",
					"funding_type": "recurring",
					"goal_amount":  1000,
					"tags":         []any{"climate"},
				},
			},
			{
				ID: "creative", Name: "Creative work", Icon: "🎨", Category: "art",
				Tagline: "Fund an album, film, book, or exhibition",
				Defaults: map[string]any{
					"category":     "art",
					"funding_type": "one_time",
					"goal_amount":  8000,
				},
			},
		},
		Wizard: &domain.WizardConfig{
			Enabled:             true,
			IncludeTemplateStep: true,
			Steps: []domain.WizardStep{
				{
					ID: "basic", Title: "Basics",
					Description: "Name and describe your project.",
					Fields:      []string{"title", "tagline", "description", "category", "cover_image_url"},
				},
				{
					ID: "funding", Title: "Funding",
					Description: "How much do you need, and how?",
					Fields:      []string{"funding_type", "goal_amount", "currency", "recurring_interval", "deadline"},
				},
				{
					ID: "advanced", Title: "Details", Optional: true,
					Description: "Location, links, and discoverability.",
					Fields:      []string{"location", "website", "contact_email", "tags", "visibility"},
				},
			},
		},
	}
}
