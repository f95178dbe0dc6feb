// Package domain contains core business types and interfaces.
//
// This file defines the declarative field configuration types: individual
// fields, grouped fields, and the conditional-visibility predicates that
// decide which parts of a form are shown for the current values.
package domain

// =============================================================================
// Input Kinds
// =============================================================================

// InputKind identifies how a field is entered and validated.
type InputKind string

const (
	InputText     InputKind = "text"
	InputTextarea InputKind = "textarea"
	InputNumber   InputKind = "number"
	InputSelect   InputKind = "select"
	InputRadio    InputKind = "radio"
	InputCheckbox InputKind = "checkbox"
	InputBoolean  InputKind = "boolean"
	InputDate     InputKind = "date"
	InputURL      InputKind = "url"
	InputEmail    InputKind = "email"
	InputPhone    InputKind = "phone"
	InputCurrency InputKind = "currency"
	InputAddress  InputKind = "address"
	InputTags     InputKind = "tags"
)

// IsChoice returns true for kinds whose value must come from Options.
func (k InputKind) IsChoice() bool {
	return k == InputSelect || k == InputRadio || k == InputCheckbox
}

// =============================================================================
// Conditional Visibility
// =============================================================================

// Condition gates a field or group on another field's current value.
//
// When Values is non-empty the condition holds if the referenced field's
// value is a member of Values; otherwise it requires exact equality with
// Value. A nil *Condition means "always visible".
type Condition struct {
	Field  string // Name of the field the condition reads
	Value  any    // Exact-match comparand (ignored when Values is set)
	Values []any  // Membership set; non-empty switches to set semantics
}

// Holds evaluates the condition against the current form data.
// A nil condition always holds.
func (c *Condition) Holds(data map[string]any) bool {
	if c == nil {
		return true
	}
	current := data[c.Field]
	if len(c.Values) > 0 {
		for _, v := range c.Values {
			if current == v {
				return true
			}
		}
		return false
	}
	return current == c.Value
}

// =============================================================================
// Field Definition
// =============================================================================

// Option is one selectable choice for select/radio/checkbox fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDefinition describes one form field. Definitions are built once at
// configuration time and never mutated.
type FieldDefinition struct {
	Name        string     `json:"name"`  // Unique key within the entity config
	Label       string     `json:"label"` // Display label
	Kind        InputKind  `json:"kind"`
	Placeholder string     `json:"placeholder,omitempty"`
	Required    bool       `json:"required"`
	Options     []Option   `json:"options,omitempty"` // For choice kinds
	Min         *float64   `json:"min,omitempty"`     // Numeric lower bound
	Max         *float64   `json:"max,omitempty"`     // Numeric upper bound
	VisibleWhen *Condition `json:"visibleWhen,omitempty"`
	ColSpan     int        `json:"colSpan,omitempty"` // Layout hint (grid columns)
}

// FieldGroup is an ordered collection of fields under a heading.
//
// A group may be gated by its own VisibleWhen condition, and may declare a
// CustomRender key instead of enumerated fields, in which case the client
// substitutes its own render unit for the whole group.
type FieldGroup struct {
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	Fields       []FieldDefinition `json:"fields,omitempty"`
	VisibleWhen  *Condition        `json:"visibleWhen,omitempty"`
	CustomRender string            `json:"customRender,omitempty"`
}

// =============================================================================
// Visibility Resolution
// =============================================================================

// FieldVisible reports whether a field should be rendered for the current
// data. Pure function of the static definition and the data snapshot.
func FieldVisible(field FieldDefinition, data map[string]any) bool {
	return field.VisibleWhen.Holds(data)
}

// GroupVisible reports whether a whole group should be rendered.
func GroupVisible(group FieldGroup, data map[string]any) bool {
	return group.VisibleWhen.Holds(data)
}

// VisibleFields returns the group's fields that are visible for the current
// data. When stepFields is non-nil it additionally narrows the result to
// names in that set; this is the wizard-mode filter and composes with the
// condition-based visibility rather than replacing it.
func VisibleFields(group FieldGroup, data map[string]any, stepFields map[string]bool) []FieldDefinition {
	visible := make([]FieldDefinition, 0, len(group.Fields))
	for _, f := range group.Fields {
		if !FieldVisible(f, data) {
			continue
		}
		if stepFields != nil && !stepFields[f.Name] {
			continue
		}
		visible = append(visible, f)
	}
	return visible
}

// VisibleGroups resolves the full group list for rendering: groups whose own
// condition fails are dropped, each surviving group's fields are filtered,
// and groups left with zero fields are dropped unless they use a custom
// render unit.
func VisibleGroups(groups []FieldGroup, data map[string]any, stepFields map[string]bool) []FieldGroup {
	resolved := make([]FieldGroup, 0, len(groups))
	for _, g := range groups {
		if !GroupVisible(g, data) {
			continue
		}
		if g.CustomRender != "" {
			resolved = append(resolved, g)
			continue
		}
		fields := VisibleFields(g, data, stepFields)
		if len(fields) == 0 {
			continue
		}
		filtered := g
		filtered.Fields = fields
		resolved = append(resolved, filtered)
	}
	return resolved
}
