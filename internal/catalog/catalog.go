// Package catalog holds the static, load-once registry of entity
// configurations: which entity types can be created, their field groups,
// templates, guidance content, and wizard setup.
//
// Configs are plain data constructed at init time and treated as read-only
// by the rest of the application. Adding a new creatable type means adding
// a config here, not writing new form logic.
package catalog

import (
	"sort"

	"github.com/calloway-dev/formflow/internal/domain"
)

// Catalog is the registry of creatable entity types.
type Catalog struct {
	configs map[string]*domain.EntityConfig
}

// New builds the registry with every built-in entity type.
func New() *Catalog {
	c := &Catalog{configs: make(map[string]*domain.EntityConfig)}
	c.register(projectConfig())
	c.register(eventConfig())
	c.register(organizationConfig())
	c.register(assistantConfig())
	c.register(loanConfig())
	c.register(circleConfig())
	return c
}

func (c *Catalog) register(cfg *domain.EntityConfig) {
	c.configs[cfg.Type] = cfg
}

// Get returns the config for an entity type.
func (c *Catalog) Get(entityType string) (*domain.EntityConfig, bool) {
	cfg, ok := c.configs[entityType]
	return cfg, ok
}

// Types returns the registered entity type keys in sorted order.
func (c *Catalog) Types() []string {
	types := make([]string, 0, len(c.configs))
	for t := range c.configs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Helpers shared by the config files.

func ptr(v float64) *float64 {
	return &v
}

func currencyOptions() []domain.Option {
	return []domain.Option{
		{Value: "CHF", Label: "Swiss Franc (CHF)"},
		{Value: "EUR", Label: "Euro (EUR)"},
		{Value: "USD", Label: "US Dollar (USD)"},
		{Value: "GBP", Label: "British Pound (GBP)"},
	}
}
