package form

import (
	"testing"

	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *domain.EntityConfig {
	min := 0.0
	max := 10000.0
	return &domain.EntityConfig{
		Type: "project",
		Groups: []domain.FieldGroup{
			{
				Title: "Basics",
				Fields: []domain.FieldDefinition{
					{Name: "title", Label: "Title", Kind: domain.InputText, Required: true},
					{Name: "contact_email", Label: "Contact email", Kind: domain.InputEmail},
					{Name: "website", Label: "Website", Kind: domain.InputURL},
				},
			},
			{
				Title: "Funding",
				Fields: []domain.FieldDefinition{
					{Name: "goal_amount", Label: "Goal", Kind: domain.InputNumber, Required: true, Min: &min, Max: &max},
					{Name: "currency", Label: "Currency", Kind: domain.InputCurrency},
					{
						Name: "interval", Label: "Interval", Kind: domain.InputSelect,
						VisibleWhen: &domain.Condition{Field: "funding_type", Value: "recurring"},
						Required:    true,
						Options: []domain.Option{
							{Value: "monthly", Label: "Monthly"},
						},
					},
				},
			},
		},
	}
}

func TestValidateRequiredTitle(t *testing.T) {
	cfg := testConfig()

	ve := Validate(cfg, map[string]any{"title": "", "goal_amount": 100})
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "title")
	assert.NotEmpty(t, ve.Fields["title"])
	assert.NotContains(t, ve.Fields, "goal_amount")
}

func TestValidatePassesOnCompleteData(t *testing.T) {
	cfg := testConfig()

	ve := Validate(cfg, map[string]any{
		"title":       "Solar Farm",
		"goal_amount": 5000,
		"currency":    "CHF",
	})
	assert.Nil(t, ve)
}

func TestHiddenRequiredFieldDoesNotBlock(t *testing.T) {
	cfg := testConfig()

	// interval is required but only visible when funding_type=recurring
	ve := Validate(cfg, map[string]any{"title": "x", "goal_amount": 1})
	assert.Nil(t, ve)

	ve = Validate(cfg, map[string]any{
		"title":        "x",
		"goal_amount":  1,
		"funding_type": "recurring",
	})
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "interval")
}

func TestNumericBounds(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name    string
		amount  any
		wantErr bool
	}{
		{"at lower bound", 0, false},
		{"below lower bound", -5, true},
		{"at upper bound", 10000, false},
		{"above upper bound", 10001, true},
		{"float from json", float64(250), false},
		{"numeric string accepted", "250", false},
		{"garbage string rejected", "lots", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := Validate(cfg, map[string]any{"title": "x", "goal_amount": tt.amount})
			if tt.wantErr {
				require.NotNil(t, ve)
				assert.Contains(t, ve.Fields, "goal_amount")
			} else {
				assert.Nil(t, ve)
			}
		})
	}
}

func TestCurrencyValidation(t *testing.T) {
	cfg := testConfig()
	base := map[string]any{"title": "x", "goal_amount": 1}

	t.Run("valid ISO code", func(t *testing.T) {
		data := map[string]any{"currency": "EUR"}
		for k, v := range base {
			data[k] = v
		}
		assert.Nil(t, Validate(cfg, data))
	})

	t.Run("unknown code rejected", func(t *testing.T) {
		data := map[string]any{"currency": "ZZZ"}
		for k, v := range base {
			data[k] = v
		}
		ve := Validate(cfg, data)
		require.NotNil(t, ve)
		assert.Contains(t, ve.Fields, "currency")
	})
}

func TestEmailAndURLValidation(t *testing.T) {
	cfg := testConfig()
	base := map[string]any{"title": "x", "goal_amount": 1}

	tests := []struct {
		name    string
		field   string
		value   string
		wantErr bool
	}{
		{"valid email", "contact_email", "hello@example.org", false},
		{"invalid email", "contact_email", "not-an-email", true},
		{"valid url", "website", "https://example.org", false},
		{"scheme-less url rejected", "website", "example.org", true},
		{"ftp url rejected", "website", "ftp://example.org", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := map[string]any{tt.field: tt.value}
			for k, v := range base {
				data[k] = v
			}
			ve := Validate(cfg, data)
			if tt.wantErr {
				require.NotNil(t, ve)
				assert.Contains(t, ve.Fields, tt.field)
			} else {
				assert.Nil(t, ve)
			}
		})
	}
}

func TestChoiceMembership(t *testing.T) {
	cfg := testConfig()

	ve := Validate(cfg, map[string]any{
		"title":        "x",
		"goal_amount":  1,
		"funding_type": "recurring",
		"interval":     "yearly",
	})
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "interval")
}
