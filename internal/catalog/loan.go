package catalog

import "github.com/calloway-dev/formflow/internal/domain"

// loanConfig: community lending campaigns. Plain form with a conditional
// collateral group.
func loanConfig() *domain.EntityConfig {
	return &domain.EntityConfig{
		Type:            "loan",
		Title:           "Request a community loan",
		Subtitle:        "Borrow from your supporters at fair terms.",
		Theme:           "amber",
		APIEndpoint:     "/api/loans",
		SuccessRedirect: "/loans/:id",
		DefaultValues: map[string]any{
			"secured":       false,
			"term_months":   12,
			"interest_rate": 0,
		},
		Groups: []domain.FieldGroup{
			{
				Title: "Loan",
				Fields: []domain.FieldDefinition{
					{Name: "title", Label: "Purpose", Kind: domain.InputText, Required: true, ColSpan: 2},
					{Name: "description", Label: "Repayment plan", Kind: domain.InputTextarea, Required: true, ColSpan: 2},
					{Name: "amount", Label: "Amount", Kind: domain.InputNumber, Required: true, Min: ptr(100), Max: ptr(500_000)},
					{Name: "currency", Label: "Currency", Kind: domain.InputCurrency, Required: true, Options: currencyOptions()},
					{Name: "term_months", Label: "Term (months)", Kind: domain.InputNumber, Required: true, Min: ptr(1), Max: ptr(120)},
					{Name: "interest_rate", Label: "Interest rate (%)", Kind: domain.InputNumber, Min: ptr(0), Max: ptr(15)},
				},
			},
			{
				Title: "Security",
				Fields: []domain.FieldDefinition{
					{Name: "secured", Label: "Offer collateral", Kind: domain.InputBoolean},
					{Name: "collateral_description", Label: "Collateral", Kind: domain.InputTextarea, ColSpan: 2,
						VisibleWhen: &domain.Condition{Field: "secured", Value: true}},
				},
			},
		},
		Guidance: map[string]domain.Guidance{
			"interest_rate": {
				Title: "Interest",
				Body:  "Zero-interest loans are common here; many lenders support the cause, not the yield.",
			},
		},
		InfoBanner: &domain.Banner{
			Kind:  "warning",
			Title: "Loans are binding",
			Body:  "Published loan requests become binding offers once funded. Check the terms carefully.",
		},
	}
}
