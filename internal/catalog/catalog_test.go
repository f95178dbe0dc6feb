package catalog

import (
	"testing"

	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	c := New()

	assert.Equal(t,
		[]string{"assistant", "circle", "event", "loan", "organization", "project"},
		c.Types(),
	)

	_, ok := c.Get("project")
	assert.True(t, ok)
	_, ok = c.Get("spaceship")
	assert.False(t, ok)
}

// Config integrity checks: every reference inside a config must resolve,
// or a form would render with dangling names at runtime.
func TestConfigIntegrity(t *testing.T) {
	c := New()

	for _, entityType := range c.Types() {
		cfg, _ := c.Get(entityType)

		t.Run(entityType, func(t *testing.T) {
			fieldNames := make(map[string]bool)
			for _, g := range cfg.Groups {
				for _, f := range g.Fields {
					require.NotEmpty(t, f.Name)
					assert.False(t, fieldNames[f.Name], "duplicate field %q", f.Name)
					fieldNames[f.Name] = true

					if f.Kind.IsChoice() {
						assert.NotEmpty(t, f.Options, "choice field %q needs options", f.Name)
					}
					if f.VisibleWhen != nil {
						assert.True(t, fieldNames[f.VisibleWhen.Field] || fieldExists(cfg, f.VisibleWhen.Field),
							"field %q condition references unknown field %q", f.Name, f.VisibleWhen.Field)
					}
				}
			}

			// Wizard steps may only reference real fields
			if cfg.Wizard != nil {
				for _, step := range cfg.Wizard.Steps {
					for _, name := range step.Fields {
						assert.True(t, fieldNames[name],
							"step %q references unknown field %q", step.ID, name)
					}
				}
			}

			// Template defaults may only reference real fields
			for _, tpl := range cfg.Templates {
				require.NotEmpty(t, tpl.ID)
				for name := range tpl.Defaults {
					assert.True(t, fieldNames[name],
						"template %q defaults unknown field %q", tpl.ID, name)
				}
			}

			// Default values must reference real fields too
			for name := range cfg.DefaultValues {
				assert.True(t, fieldNames[name],
					"default value for unknown field %q", name)
			}

			// Guidance keys as well
			for name := range cfg.Guidance {
				assert.True(t, fieldNames[name],
					"guidance for unknown field %q", name)
			}

			if cfg.SlugSource != "" {
				assert.True(t, fieldNames[cfg.SlugSource])
			}
			assert.NotEmpty(t, cfg.APIEndpoint)
			assert.NotEmpty(t, cfg.SuccessRedirect)
		})
	}
}

func TestWizardStepsCoverRequiredFields(t *testing.T) {
	c := New()

	for _, entityType := range c.Types() {
		cfg, _ := c.Get(entityType)
		if cfg.Wizard == nil || !cfg.Wizard.Enabled {
			continue
		}

		t.Run(entityType, func(t *testing.T) {
			inSteps := make(map[string]bool)
			for _, step := range cfg.Wizard.Steps {
				for _, name := range step.Fields {
					inSteps[name] = true
				}
			}

			// A required field invisible in every step could never be
			// filled, making the wizard unsubmittable.
			for _, g := range cfg.Groups {
				for _, f := range g.Fields {
					if f.Required {
						assert.True(t, inSteps[f.Name],
							"required field %q unreachable in wizard", f.Name)
					}
				}
			}
		})
	}
}

func fieldExists(cfg *domain.EntityConfig, name string) bool {
	_, ok := cfg.FieldByName(name)
	return ok
}
