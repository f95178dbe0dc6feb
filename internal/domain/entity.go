// Package domain contains core business types and interfaces.
//
// This file defines the per-entity-type configuration: display strings,
// field groups, templates, wizard setup, guidance content, and the
// success-redirect template.
package domain

import "strings"

// =============================================================================
// Entity Configuration
// =============================================================================

// EntityConfig is the declarative description of one creatable entity type.
//
// Configs are constructed once at startup by the catalog package and treated
// as read-only afterwards. Nothing in the runtime mutates them.
type EntityConfig struct {
	Type        string // Stable key, e.g. "project"
	Title       string // Page heading, e.g. "Create a project"
	Subtitle    string
	Theme       string // Presentation theme hint for the client
	APIEndpoint string // Platform API path for create/update, e.g. "/api/projects"

	// SuccessRedirect is a URL template resolved against the created record.
	// Both ":field" and "[field]" placeholder styles are supported.
	SuccessRedirect string

	Groups        []FieldGroup
	DefaultValues map[string]any

	// SlugSource names the field whose edits re-derive the "slug" field.
	// Empty means the entity type has no derived slug.
	SlugSource string

	Guidance   map[string]Guidance // Per-field help content, keyed by field name
	InfoBanner *Banner             // Optional banner above the form
	Templates  []Template
	Wizard     *WizardConfig
}

// FieldByName looks a field definition up across all groups.
func (c *EntityConfig) FieldByName(name string) (FieldDefinition, bool) {
	for _, g := range c.Groups {
		for _, f := range g.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return FieldDefinition{}, false
}

// TemplateByID returns the template with the given id, if configured.
func (c *EntityConfig) TemplateByID(id string) (Template, bool) {
	for _, t := range c.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// GuidanceFor returns the guidance entry for a field, falling back to a
// neutral panel when no entry is configured. A missing entry is a content
// gap, not an error.
func (c *EntityConfig) GuidanceFor(field string) Guidance {
	if g, ok := c.Guidance[field]; ok {
		return g
	}
	return Guidance{
		Title: "Tips",
		Body:  "Fill in this field with information that helps backers understand your " + c.Type + ".",
	}
}

// =============================================================================
// Templates
// =============================================================================

// Template is a named set of default field values offered to speed up entity
// creation. Purely data; applying one goes through the form state store.
type Template struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Tagline  string         `json:"tagline,omitempty"`
	Icon     string         `json:"icon,omitempty"`
	Category string         `json:"category,omitempty"`
	Defaults map[string]any `json:"defaults"`
}

// =============================================================================
// Wizard Configuration
// =============================================================================

// WizardStep is one step of a multi-step creation flow. Fields lists the
// names visible during the step; a step with no fields (the synthetic
// template step) renders the template gallery instead.
type WizardStep struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Optional    bool     `json:"optional"`
	Fields      []string `json:"fields,omitempty"`
}

// WizardConfig enables the step-by-step variant of a form.
type WizardConfig struct {
	Enabled             bool
	IncludeTemplateStep bool // Prepend a template-selection step when templates exist
	Steps               []WizardStep
}

// =============================================================================
// Guidance and Banners
// =============================================================================

// Guidance is contextual help content for one field, shown while the field
// has focus.
type Guidance struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Examples []string `json:"examples,omitempty"`
}

// Banner is an informational callout rendered above the form.
type Banner struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Kind  string `json:"kind"` // "info", "warning"
}

// =============================================================================
// Form Mode
// =============================================================================

// FormMode is the presentation variant for a session, resolved once at open
// time from the shape of the configuration rather than re-derived from flags
// during rendering.
type FormMode string

const (
	// ModeSimple is the plain single-page form.
	ModeSimple FormMode = "simple"

	// ModeTemplateThenForm shows a full-page template gallery first, then
	// the plain form. Used when templates exist but no wizard is configured
	// and the caller supplied no initial values.
	ModeTemplateThenForm FormMode = "template_then_form"

	// ModeWizard is the step state machine.
	ModeWizard FormMode = "wizard"
)

// ResolveMode picks the presentation variant for a session.
func ResolveMode(cfg *EntityConfig, hasInitialValues bool) FormMode {
	if cfg.Wizard != nil && cfg.Wizard.Enabled && len(cfg.Wizard.Steps) > 0 {
		return ModeWizard
	}
	if len(cfg.Templates) > 0 && !hasInitialValues {
		return ModeTemplateThenForm
	}
	return ModeSimple
}

// =============================================================================
// Success Redirect
// =============================================================================

// BuildSuccessURL substitutes ":field" and "[field]" placeholders in the
// success-redirect template with matching top-level properties of the
// created record. Missing fields substitute the empty string.
func BuildSuccessURL(template string, record map[string]any) string {
	var b strings.Builder
	for i := 0; i < len(template); {
		switch template[i] {
		case ':':
			name, next := readPlaceholderName(template, i+1)
			if name == "" {
				b.WriteByte(template[i])
				i++
				continue
			}
			b.WriteString(stringValue(record[name]))
			i = next
		case '[':
			end := strings.IndexByte(template[i:], ']')
			if end < 0 {
				b.WriteByte(template[i])
				i++
				continue
			}
			name := template[i+1 : i+end]
			b.WriteString(stringValue(record[name]))
			i += end + 1
		default:
			b.WriteByte(template[i])
			i++
		}
	}
	return b.String()
}

// readPlaceholderName scans an identifier starting at pos and returns it
// with the index just past its end.
func readPlaceholderName(s string, pos int) (string, int) {
	end := pos
	for end < len(s) && (isAlnum(s[end]) || s[end] == '_') {
		end++
	}
	return s[pos:end], end
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return formatScalar(v)
}
