// Package service contains the business logic layer.
//
// This file defines the Snapshot view: the JSON-ready projection of a form
// session the client renders from.
package service

import (
	"time"

	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/calloway-dev/formflow/internal/wizard"
	"github.com/google/uuid"
)

// Snapshot is the client-facing view of one form session.
type Snapshot struct {
	SessionID  uuid.UUID       `json:"sessionId"`
	EntityType string          `json:"entityType"`
	Title      string          `json:"title"`
	Subtitle   string          `json:"subtitle,omitempty"`
	Theme      string          `json:"theme,omitempty"`
	Mode       domain.FormMode `json:"mode"`
	Editing    bool            `json:"editing"`

	// Groups is the resolved, render-ready group list: condition-filtered
	// and, in wizard mode, narrowed to the active step.
	Groups []domain.FieldGroup `json:"groups"`

	Data         map[string]any     `json:"data"`
	Errors       map[string]string  `json:"errors"`
	GeneralError string             `json:"generalError,omitempty"`
	IsDirty      bool               `json:"isDirty"`
	IsSubmitting bool               `json:"isSubmitting"`
	ActiveField  string             `json:"activeField,omitempty"`
	AIFields     map[string]float64 `json:"aiFields,omitempty"`

	Banner    *domain.Banner    `json:"banner,omitempty"`
	Templates []domain.Template `json:"templates,omitempty"`

	Wizard *WizardView `json:"wizard,omitempty"`

	// ScrollToTop is a one-shot instruction set after template
	// application.
	ScrollToTop bool `json:"scrollToTop,omitempty"`

	// RestoredDraft is present on the first snapshot after a draft was
	// restored, so the client can notify the user.
	RestoredDraft *RestoredDraft `json:"restoredDraft,omitempty"`
}

// WizardView is the wizard state the client needs to render the stepper.
type WizardView struct {
	Steps     []domain.WizardStep `json:"steps"`
	Current   int                 `json:"current"`
	Completed []int               `json:"completed"`
	AtLast    bool                `json:"atLast"`
}

// RestoredDraft tells the user their work was resumed.
type RestoredDraft struct {
	SavedAt time.Time `json:"savedAt"`
	Ago     string    `json:"ago"` // Human-relative, e.g. "2 hours ago"
}

// snapshotLocked builds the current view. Caller holds sess.mu.
func (s *formSessionService) snapshotLocked(sess *session) *Snapshot {
	data := sess.state.Data()

	var stepFields map[string]bool
	var wizardView *WizardView
	if sess.wizard != nil {
		stepFields = sess.wizard.StepFieldSet()
		wizardView = &WizardView{
			Steps:     sess.wizard.Steps(),
			Current:   sess.wizard.Current(),
			Completed: sess.wizard.Completed(),
			AtLast:    sess.wizard.AtLastStep(),
		}
	}

	snap := &Snapshot{
		SessionID:     sess.id,
		EntityType:    sess.cfg.Type,
		Title:         sess.cfg.Title,
		Subtitle:      sess.cfg.Subtitle,
		Theme:         sess.cfg.Theme,
		Mode:          sess.mode,
		Editing:       sess.editing,
		Groups:        domain.VisibleGroups(sess.cfg.Groups, data, stepFields),
		Data:          data,
		Errors:        sess.state.Errors(),
		GeneralError:  sess.state.GeneralError(),
		IsDirty:       sess.state.IsDirty(),
		IsSubmitting:  sess.state.IsSubmitting(),
		ActiveField:   sess.state.ActiveField(),
		AIFields:      sess.state.AIFields(),
		Banner:        sess.cfg.InfoBanner,
		Wizard:        wizardView,
		ScrollToTop:   sess.scrollToTop,
		RestoredDraft: sess.restored,
	}

	// Template galleries show in the gallery mode and on the wizard's
	// template step.
	switch {
	case sess.mode == domain.ModeTemplateThenForm:
		snap.Templates = sess.cfg.Templates
	case sess.wizard != nil && sess.wizard.CurrentStep().ID == wizard.TemplateStepID:
		snap.Templates = sess.cfg.Templates
	}

	// One-shot flags are consumed by being read.
	sess.scrollToTop = false
	sess.restored = nil

	return snap
}
