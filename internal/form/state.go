// Package form implements the runtime state store backing one open form.
//
// A State is created when a form session opens and discarded when it
// closes. All operations are synchronous local mutations and cannot fail;
// the session service serializes access, so State itself carries no locks.
package form

import "maps"

// State holds the mutable runtime record for one open form.
type State struct {
	defaults   map[string]any
	slugSource string

	data        map[string]any
	errors      map[string]string
	general     string // Form-level error from a failed submission
	submitting  bool
	dirty       bool
	activeField string

	// aiFields records which fields were populated by AI prefill and at
	// what confidence. Display-only; validation and submission ignore it.
	aiFields map[string]float64
}

// New creates a State seeded from the entity's default values merged with
// any caller-supplied initial values (initials win on overlap).
func New(defaults, initial map[string]any, slugSource string) *State {
	s := &State{
		defaults:   defaults,
		slugSource: slugSource,
		data:       make(map[string]any, len(defaults)+len(initial)),
		errors:     make(map[string]string),
		aiFields:   make(map[string]float64),
	}
	maps.Copy(s.data, defaults)
	maps.Copy(s.data, initial)
	return s
}

// =============================================================================
// Accessors
// =============================================================================

// Data returns a copy of the current field values.
func (s *State) Data() map[string]any {
	return maps.Clone(s.data)
}

// Get returns the current value for a field.
func (s *State) Get(name string) any {
	return s.data[name]
}

// Errors returns a copy of the current field errors.
func (s *State) Errors() map[string]string {
	return maps.Clone(s.errors)
}

// GeneralError returns the form-level error message, if any.
func (s *State) GeneralError() string {
	return s.general
}

// IsSubmitting reports whether a submission is in flight.
func (s *State) IsSubmitting() bool {
	return s.submitting
}

// IsDirty reports whether the user has modified the form since the last
// reset.
func (s *State) IsDirty() bool {
	return s.dirty
}

// ActiveField returns the name of the last-focused field, or "".
func (s *State) ActiveField() string {
	return s.activeField
}

// AIFields returns a copy of the AI-provenance markers (field name to
// confidence score).
func (s *State) AIFields() map[string]float64 {
	return maps.Clone(s.aiFields)
}

// =============================================================================
// Mutations
// =============================================================================

// SetField replaces a field's value, clears its error and AI-provenance
// marker, and marks the form dirty. Editing the slug-source field also
// re-derives the slug field.
func (s *State) SetField(name string, value any, slugify func(string) string) {
	s.data[name] = value
	delete(s.errors, name)
	delete(s.aiFields, name)
	s.dirty = true

	if s.slugSource != "" && name == s.slugSource {
		if str, ok := value.(string); ok && slugify != nil {
			s.data["slug"] = slugify(str)
		}
	}
}

// SetActiveField updates which field's guidance is shown. Pass "" to clear.
// No validation side effect.
func (s *State) SetActiveField(name string) {
	s.activeField = name
}

// ApplyTemplate shallow-merges template defaults over the current data.
// Template values win for overlapping keys; everything else is preserved.
// Marks the form dirty.
func (s *State) ApplyTemplate(defaults map[string]any) {
	maps.Copy(s.data, defaults)
	s.dirty = true
}

// ApplyAIPrefill merges AI-suggested values and records their provenance.
// Suggestions never clobber field errors; a suggested field's error is
// cleared the same way a manual edit would clear it.
func (s *State) ApplyAIPrefill(values map[string]any, confidence map[string]float64) {
	for name, value := range values {
		s.data[name] = value
		delete(s.errors, name)
		s.aiFields[name] = confidence[name]
	}
	s.dirty = true
}

// ClearAIProvenance drops all AI markers. Called when a template is applied,
// since template selection supersedes AI suggestions.
func (s *State) ClearAIProvenance() {
	clear(s.aiFields)
}

// Reset replaces the data with defaults merged with the given initial
// values and clears errors, dirty flag, and active field. Called when the
// caller-supplied initial values change identity.
func (s *State) Reset(initial map[string]any) {
	s.data = make(map[string]any, len(s.defaults)+len(initial))
	maps.Copy(s.data, s.defaults)
	maps.Copy(s.data, initial)
	clear(s.errors)
	s.general = ""
	s.dirty = false
	s.activeField = ""
	clear(s.aiFields)
}

// =============================================================================
// Submission bookkeeping
// =============================================================================

// BeginSubmit marks a submission in flight and clears the previous
// form-level error. Returns false if one is already in flight, which is the
// double-submit guard.
func (s *State) BeginSubmit() bool {
	if s.submitting {
		return false
	}
	s.submitting = true
	s.general = ""
	return true
}

// FinishSubmit clears the in-flight flag.
func (s *State) FinishSubmit() {
	s.submitting = false
}

// SetFieldErrors replaces the field error map after a failed validation.
func (s *State) SetFieldErrors(fields map[string]string) {
	s.errors = make(map[string]string, len(fields))
	maps.Copy(s.errors, fields)
}

// SetGeneralError records a form-level error from a failed API call.
func (s *State) SetGeneralError(message string) {
	s.general = message
}

// MarkClean clears the dirty flag after a successful submission.
func (s *State) MarkClean() {
	s.dirty = false
}

// MergeDraft lays draft values over the current data without touching the
// dirty flag; restoring a draft is not a user edit.
func (s *State) MergeDraft(formData map[string]any) {
	maps.Copy(s.data, formData)
}
