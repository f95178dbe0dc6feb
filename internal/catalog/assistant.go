package catalog

import "github.com/calloway-dev/formflow/internal/domain"

// assistantConfig covers the platform's AI assistant entities. Wizard
// without a template step: templates exist, but assistants start from the
// basics step directly.
func assistantConfig() *domain.EntityConfig {
	return &domain.EntityConfig{
		Type:            "assistant",
		Title:           "Create an AI assistant",
		Subtitle:        "A helper that answers questions about your project or organization.",
		Theme:           "cyan",
		APIEndpoint:     "/api/assistants",
		SuccessRedirect: "/assistants/:id",
		DefaultValues: map[string]any{
			"tone":       "friendly",
			"visibility": "members",
		},
		Groups: []domain.FieldGroup{
			{
				Title: "Identity",
				Fields: []domain.FieldDefinition{
					{Name: "name", Label: "Assistant name", Kind: domain.InputText, Required: true},
					{Name: "purpose", Label: "Purpose", Kind: domain.InputTextarea, Required: true, ColSpan: 2},
					{
						Name: "tone", Label: "Tone", Kind: domain.InputSelect,
						Options: []domain.Option{
							{Value: "friendly", Label: "Friendly"},
							{Value: "formal", Label: "Formal"},
							{Value: "playful", Label: "Playful"},
						},
					},
				},
			},
			{
				Title: "Knowledge",
				Fields: []domain.FieldDefinition{
					{Name: "source_urls", Label: "Source pages", Kind: domain.InputTags, ColSpan: 2},
					{Name: "fallback_contact", Label: "Fallback contact", Kind: domain.InputEmail},
				},
			},
			{
				Title: "Access",
				Fields: []domain.FieldDefinition{
					{
						Name: "visibility", Label: "Who can chat", Kind: domain.InputRadio,
						Options: []domain.Option{
							{Value: "public", Label: "Anyone"},
							{Value: "members", Label: "Members only"},
						},
					},
				},
			},
		},
		Templates: []domain.Template{
			{
				ID: "faq", Name: "FAQ bot", Icon: "❓",
				Tagline:  "Answers common supporter questions",
				Defaults: map[string]any{"tone": "friendly", "visibility": "public"},
			},
			{
				ID: "onboarding", Name: "Member onboarding", Icon: "👋",
				Tagline:  "Guides new members through your group",
				Defaults: map[string]any{"tone": "friendly", "visibility": "members"},
			},
		},
		Wizard: &domain.WizardConfig{
			Enabled: true,
			Steps: []domain.WizardStep{
				{ID: "identity", Title: "Identity", Fields: []string{"name", "purpose", "tone"}},
				{ID: "knowledge", Title: "Knowledge", Optional: true, Fields: []string{"source_urls", "fallback_contact"}},
				{ID: "access", Title: "Access", Fields: []string{"visibility"}},
			},
		},
	}
}
