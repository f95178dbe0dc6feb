package handler

import (
	"log/slog"
	"net/http"

	"github.com/calloway-dev/formflow/internal/catalog"
)

// EntityHandler serves the entity-type catalog: which entities can be
// created and what their forms look like.
type EntityHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(cat *catalog.Catalog, logger *slog.Logger) *EntityHandler {
	return &EntityHandler{
		catalog: cat,
		logger:  logger,
	}
}

// entitySummary is the list-view projection of an entity config.
type entitySummary struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	Theme     string `json:"theme,omitempty"`
	HasWizard bool   `json:"hasWizard"`
	Templates int    `json:"templates"`
}

// List handles GET /api/entity-types.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	types := h.catalog.Types()
	summaries := make([]entitySummary, 0, len(types))
	for _, name := range types {
		cfg, ok := h.catalog.Get(name)
		if !ok {
			continue
		}
		summaries = append(summaries, entitySummary{
			Type:      cfg.Type,
			Title:     cfg.Title,
			Subtitle:  cfg.Subtitle,
			Theme:     cfg.Theme,
			HasWizard: cfg.Wizard != nil && cfg.Wizard.Enabled,
			Templates: len(cfg.Templates),
		})
	}
	respondJSON(w, h.logger, http.StatusOK, summaries)
}

// Get handles GET /api/entity-types/{type} and returns the full form
// configuration for one entity type.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("type")
	cfg, ok := h.catalog.Get(name)
	if !ok {
		NotFoundResponse(w, r, h.logger)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, cfg)
}
