package wizard

import (
	"testing"

	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/stretchr/testify/assert"
)

func fourSteps() []domain.WizardStep {
	return []domain.WizardStep{
		{ID: "template", Title: "Template", Optional: true},
		{ID: "basic", Title: "Basics", Fields: []string{"title", "description"}},
		{ID: "funding", Title: "Funding", Fields: []string{"goal_amount", "currency"}},
		{ID: "advanced", Title: "Advanced", Optional: true, Fields: []string{"tags"}},
	}
}

func TestBuildSteps(t *testing.T) {
	configured := []domain.WizardStep{
		{ID: "basic", Title: "Basics"},
		{ID: "funding", Title: "Funding"},
	}
	templates := []domain.Template{{ID: "starter", Name: "Starter"}}

	tests := []struct {
		name      string
		cfg       *domain.WizardConfig
		templates []domain.Template
		wantIDs   []string
	}{
		{
			name:    "nil config yields no steps",
			cfg:     nil,
			wantIDs: nil,
		},
		{
			name:    "disabled config yields no steps",
			cfg:     &domain.WizardConfig{Enabled: false, Steps: configured},
			wantIDs: nil,
		},
		{
			name:    "enabled without template step",
			cfg:     &domain.WizardConfig{Enabled: true, Steps: configured},
			wantIDs: []string{"basic", "funding"},
		},
		{
			name:      "template step prepended",
			cfg:       &domain.WizardConfig{Enabled: true, IncludeTemplateStep: true, Steps: configured},
			templates: templates,
			wantIDs:   []string{"template", "basic", "funding"},
		},
		{
			name:    "template step requires templates",
			cfg:     &domain.WizardConfig{Enabled: true, IncludeTemplateStep: true, Steps: configured},
			wantIDs: []string{"basic", "funding"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := BuildSteps(tt.cfg, tt.templates)
			ids := make([]string, 0, len(steps))
			for _, s := range steps {
				ids = append(ids, s.ID)
			}
			if tt.wantIDs == nil {
				assert.Empty(t, steps)
			} else {
				assert.Equal(t, tt.wantIDs, ids)
			}
		})
	}
}

func TestNextPreviousSkip(t *testing.T) {
	c := New(fourSteps())

	t.Run("skip on optional step behaves like next", func(t *testing.T) {
		assert.True(t, c.Skip())
		assert.Equal(t, 1, c.Current())
		assert.True(t, c.IsCompleted(0))
	})

	t.Run("skip rejected on required step", func(t *testing.T) {
		assert.False(t, c.Skip())
		assert.Equal(t, 1, c.Current())
	})

	t.Run("previous does not un-complete", func(t *testing.T) {
		assert.True(t, c.Previous())
		assert.Equal(t, 0, c.Current())
		assert.True(t, c.IsCompleted(0))
	})

	t.Run("previous rejected at step zero", func(t *testing.T) {
		assert.False(t, c.Previous())
	})

	t.Run("next rejected at last step", func(t *testing.T) {
		c := New(fourSteps())
		for !c.AtLastStep() {
			assert.True(t, c.Next())
		}
		assert.False(t, c.Next())
		assert.Equal(t, 3, c.Current())
	})
}

func TestJumpTo(t *testing.T) {
	t.Run("forward jump onto uncompleted step is a no-op", func(t *testing.T) {
		c := New(fourSteps())
		c.Skip()     // 0 -> 1, completes 0
		c.Previous() // back to 0

		assert.False(t, c.JumpTo(2), "2 is neither <= current nor completed")
		assert.Equal(t, 0, c.Current())
	})

	t.Run("jump onto completed step succeeds", func(t *testing.T) {
		c := New(fourSteps())
		c.Next() // completes 0
		c.Next() // completes 1, now at 2

		assert.True(t, c.JumpTo(1))
		assert.Equal(t, 1, c.Current())
		assert.False(t, c.JumpTo(2), "step 2 was visited but never completed")
	})

	t.Run("jump backward always succeeds", func(t *testing.T) {
		c := New(fourSteps())
		c.Next()
		c.Next()

		assert.True(t, c.JumpTo(0))
		assert.Equal(t, 0, c.Current())
	})

	t.Run("out of range indexes rejected", func(t *testing.T) {
		c := New(fourSteps())
		assert.False(t, c.JumpTo(-1))
		assert.False(t, c.JumpTo(4))
	})
}

func TestStepFieldSet(t *testing.T) {
	c := New(fourSteps())

	assert.Nil(t, c.StepFieldSet(), "template step declares no fields")

	c.Skip()
	set := c.StepFieldSet()
	assert.True(t, set["title"])
	assert.True(t, set["description"])
	assert.False(t, set["goal_amount"])
}

func TestCompletedOrdering(t *testing.T) {
	c := New(fourSteps())
	c.Next()
	c.Next()

	assert.Equal(t, []int{0, 1}, c.Completed())
}
