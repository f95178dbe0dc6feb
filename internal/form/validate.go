package form

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/calloway-dev/formflow/internal/domain"
	"golang.org/x/text/currency"
)

// Validate checks merged form data against the entity's field definitions.
// Returns nil when the data is valid; otherwise a ValidationError carrying
// one human-readable message per violating field.
//
// Only visible fields are validated: a required field hidden by its own or
// its group's condition cannot block submission.
func Validate(cfg *domain.EntityConfig, data map[string]any) *domain.ValidationError {
	const op = "form.validate"

	fields := make(map[string]string)
	for _, group := range cfg.Groups {
		if !domain.GroupVisible(group, data) {
			continue
		}
		for _, field := range group.Fields {
			if !domain.FieldVisible(field, data) {
				continue
			}
			if msg := validateField(field, data[field.Name]); msg != "" {
				fields[field.Name] = msg
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Op: op, Fields: fields}
}

func validateField(field domain.FieldDefinition, value any) string {
	if domain.IsEmptyValue(value) {
		if field.Required {
			return fmt.Sprintf("%s is required", labelOrName(field))
		}
		return ""
	}

	switch field.Kind {
	case domain.InputNumber, domain.InputCurrency:
		if field.Kind == domain.InputCurrency {
			return validateCurrency(field, value)
		}
		return validateNumber(field, value)
	case domain.InputEmail:
		return validateEmail(field, value)
	case domain.InputURL:
		return validateURL(field, value)
	}

	if field.Kind.IsChoice() {
		return validateChoice(field, value)
	}
	return ""
}

func validateNumber(field domain.FieldDefinition, value any) string {
	num, ok := asFloat(value)
	if !ok {
		return fmt.Sprintf("%s must be a number", labelOrName(field))
	}
	if field.Min != nil && num < *field.Min {
		return fmt.Sprintf("%s must be at least %g", labelOrName(field), *field.Min)
	}
	if field.Max != nil && num > *field.Max {
		return fmt.Sprintf("%s must be at most %g", labelOrName(field), *field.Max)
	}
	return ""
}

// validateCurrency accepts ISO 4217 codes, optionally restricted further by
// the field's options.
func validateCurrency(field domain.FieldDefinition, value any) string {
	code, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%s must be a currency code", labelOrName(field))
	}
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Sprintf("%s is not a recognized currency", code)
	}
	if len(field.Options) > 0 {
		return validateChoice(field, value)
	}
	return ""
}

func validateEmail(field domain.FieldDefinition, value any) string {
	addr, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%s must be an email address", labelOrName(field))
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return fmt.Sprintf("%s is not a valid email address", labelOrName(field))
	}
	return ""
}

func validateURL(field domain.FieldDefinition, value any) string {
	raw, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%s must be a URL", labelOrName(field))
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Sprintf("%s must be a valid http(s) URL", labelOrName(field))
	}
	return ""
}

func validateChoice(field domain.FieldDefinition, value any) string {
	str, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%s has an invalid value", labelOrName(field))
	}
	for _, opt := range field.Options {
		if opt.Value == str {
			return ""
		}
	}
	return fmt.Sprintf("%s is not one of the allowed choices", labelOrName(field))
}

func labelOrName(field domain.FieldDefinition) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		// Numeric inputs sometimes arrive as strings from the client.
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
