// Package wizard implements the step state machine for multi-step entity
// creation.
//
// The controller owns the ordered step list, the current position, and the
// completed set, and enforces the navigation rules: forward only via
// next/skip, free backward movement, and direct jumps only onto the current
// or an already-completed step.
package wizard

import "github.com/calloway-dev/formflow/internal/domain"

// TemplateStepID is the id of the synthetic template-selection step.
const TemplateStepID = "template"

// Controller is the wizard state machine for one form session.
type Controller struct {
	steps     []domain.WizardStep
	current   int
	completed map[int]bool
}

// BuildSteps resolves the effective step list for a session. When the
// config enables the wizard, declares IncludeTemplateStep, and the entity
// has at least one template, a synthetic optional template step is
// prepended; otherwise the configured steps are used as-is.
func BuildSteps(cfg *domain.WizardConfig, templates []domain.Template) []domain.WizardStep {
	if cfg == nil || !cfg.Enabled || len(cfg.Steps) == 0 {
		return nil
	}
	if cfg.IncludeTemplateStep && len(templates) > 0 {
		steps := make([]domain.WizardStep, 0, len(cfg.Steps)+1)
		steps = append(steps, domain.WizardStep{
			ID:          TemplateStepID,
			Title:       "Start from a template",
			Description: "Pick a template to prefill the form, or skip to start from scratch.",
			Optional:    true,
		})
		return append(steps, cfg.Steps...)
	}
	return cfg.Steps
}

// New creates a controller positioned at step 0. Callers must pass a
// non-empty step list.
func New(steps []domain.WizardStep) *Controller {
	return &Controller{
		steps:     steps,
		completed: make(map[int]bool),
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Steps returns the resolved step list.
func (c *Controller) Steps() []domain.WizardStep {
	return c.steps
}

// Current returns the current step index.
func (c *Controller) Current() int {
	return c.current
}

// CurrentStep returns the current step definition.
func (c *Controller) CurrentStep() domain.WizardStep {
	return c.steps[c.current]
}

// Completed returns the completed step indexes in ascending order.
func (c *Controller) Completed() []int {
	done := make([]int, 0, len(c.completed))
	for i := range c.steps {
		if c.completed[i] {
			done = append(done, i)
		}
	}
	return done
}

// IsCompleted reports whether a step index has been completed.
func (c *Controller) IsCompleted(index int) bool {
	return c.completed[index]
}

// AtLastStep reports whether the controller sits on the final step, where
// "next" is replaced by submission.
func (c *Controller) AtLastStep() bool {
	return c.current == len(c.steps)-1
}

// StepFieldSet returns the current step's field names as a lookup set for
// the visibility filter. Nil for steps with no declared fields (the
// template step), which renders the gallery instead of form fields.
func (c *Controller) StepFieldSet() map[string]bool {
	fields := c.steps[c.current].Fields
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]bool, len(fields))
	for _, name := range fields {
		set[name] = true
	}
	return set
}

// =============================================================================
// Transitions
// =============================================================================

// Next marks the current step completed and advances. Returns false at the
// last step, where submission takes over.
func (c *Controller) Next() bool {
	if c.AtLastStep() {
		return false
	}
	c.completed[c.current] = true
	c.current++
	return true
}

// Previous moves back one step without un-completing anything. Returns
// false at step 0.
func (c *Controller) Previous() bool {
	if c.current == 0 {
		return false
	}
	c.current--
	return true
}

// Skip advances past an optional step, behaving exactly like Next. Returns
// false when the current step is not optional or is the last step.
func (c *Controller) Skip() bool {
	if !c.steps[c.current].Optional {
		return false
	}
	return c.Next()
}

// JumpTo moves directly to a step. Only the current step, earlier steps,
// and completed steps are reachable; anything else is a no-op and the UI is
// expected to disable the control.
func (c *Controller) JumpTo(index int) bool {
	if index < 0 || index >= len(c.steps) {
		return false
	}
	if index > c.current && !c.completed[index] {
		return false
	}
	c.current = index
	return true
}
