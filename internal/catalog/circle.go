package catalog

import "github.com/calloway-dev/formflow/internal/domain"

// circleConfig: recurring-contribution member circles. Uses a custom render
// unit for the membership-tier editor instead of enumerated fields.
func circleConfig() *domain.EntityConfig {
	return &domain.EntityConfig{
		Type:            "circle",
		Title:           "Start a circle",
		Subtitle:        "A standing group of supporters with monthly contributions.",
		Theme:           "rose",
		APIEndpoint:     "/api/circles",
		SuccessRedirect: "/circles/[slug]",
		SlugSource:      "name",
		DefaultValues: map[string]any{
			"join_policy": "open",
		},
		Groups: []domain.FieldGroup{
			{
				Title: "Circle",
				Fields: []domain.FieldDefinition{
					{Name: "name", Label: "Circle name", Kind: domain.InputText, Required: true, ColSpan: 2},
					{Name: "description", Label: "What the circle funds", Kind: domain.InputTextarea, Required: true, ColSpan: 2},
					{
						Name: "join_policy", Label: "Joining", Kind: domain.InputRadio,
						Options: []domain.Option{
							{Value: "open", Label: "Anyone can join"},
							{Value: "approval", Label: "Requires approval"},
							{Value: "invite", Label: "Invite only"},
						},
					},
				},
			},
			{
				Title:        "Membership tiers",
				Description:  "Contribution levels and what members get.",
				CustomRender: "tier-editor",
			},
		},
	}
}
