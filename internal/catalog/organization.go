package catalog

import "github.com/calloway-dev/formflow/internal/domain"

// organizationConfig is a plain single-page form: no templates, no wizard.
func organizationConfig() *domain.EntityConfig {
	return &domain.EntityConfig{
		Type:            "organization",
		Title:           "Register an organization",
		Subtitle:        "Associations, cooperatives, and nonprofits.",
		Theme:           "slate",
		APIEndpoint:     "/api/organizations",
		SuccessRedirect: "/orgs/:slug",
		SlugSource:      "name",
		DefaultValues: map[string]any{
			"legal_form": "association",
		},
		Groups: []domain.FieldGroup{
			{
				Title: "Organization",
				Fields: []domain.FieldDefinition{
					{Name: "name", Label: "Name", Kind: domain.InputText, Required: true, ColSpan: 2},
					{Name: "description", Label: "Mission", Kind: domain.InputTextarea, ColSpan: 2},
					{
						Name: "legal_form", Label: "Legal form", Kind: domain.InputSelect, Required: true,
						Options: []domain.Option{
							{Value: "association", Label: "Association"},
							{Value: "cooperative", Label: "Cooperative"},
							{Value: "foundation", Label: "Foundation"},
							{Value: "informal", Label: "Informal group"},
						},
					},
					{Name: "registry_number", Label: "Registry number", Kind: domain.InputText,
						VisibleWhen: &domain.Condition{Field: "legal_form", Values: []any{"association", "cooperative", "foundation"}}},
				},
			},
			{
				Title: "Contact",
				Fields: []domain.FieldDefinition{
					{Name: "contact_email", Label: "Email", Kind: domain.InputEmail, Required: true},
					{Name: "phone", Label: "Phone", Kind: domain.InputPhone},
					{Name: "website", Label: "Website", Kind: domain.InputURL},
					{Name: "address", Label: "Address", Kind: domain.InputAddress, ColSpan: 2},
				},
			},
		},
		Guidance: map[string]domain.Guidance{
			"registry_number": {
				Title: "Registry number",
				Body:  "The commercial-register or association-register number, if your organization has one.",
			},
		},
	}
}
