// Package service contains the business logic layer.
//
// This file implements the form session service: the server-side owner of
// one user's in-progress entity form. A session ties together the entity
// config, the mutable form state, the optional wizard controller, draft
// autosave, AI prefill, and the submission pipeline.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/calloway-dev/formflow/internal/ai"
	"github.com/calloway-dev/formflow/internal/catalog"
	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/calloway-dev/formflow/internal/draft"
	"github.com/calloway-dev/formflow/internal/form"
	"github.com/calloway-dev/formflow/internal/metrics"
	"github.com/calloway-dev/formflow/internal/platform"
	"github.com/calloway-dev/formflow/internal/wizard"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// =============================================================================
// Interface Definition
// =============================================================================

// FormSessionService defines the operations on open form sessions.
//
// All methods are safe for concurrent use; mutations on one session are
// serialized by a per-session lock.
type FormSessionService interface {
	// Open creates a new session for the given user and entity type.
	// Returns domain.ENOTFOUND for unknown entity types and
	// domain.EINVALID for a bad mode.
	Open(ctx context.Context, user *domain.User, sessionToken string, params OpenParams) (*Snapshot, error)

	// Get returns the current snapshot of a session.
	Get(ctx context.Context, user *domain.User, id uuid.UUID) (*Snapshot, error)

	// SetField updates one field's value.
	SetField(ctx context.Context, user *domain.User, id uuid.UUID, name string, value any) (*Snapshot, error)

	// SetActiveField records the focused field and returns its guidance.
	SetActiveField(ctx context.Context, user *domain.User, id uuid.UUID, name string) (*domain.Guidance, error)

	// ApplyTemplate merges a template's defaults into the form.
	ApplyTemplate(ctx context.Context, user *domain.User, id uuid.UUID, templateID string) (*Snapshot, error)

	// Wizard performs a navigation action ("next", "previous", "skip",
	// "jump"). step is only read for "jump".
	Wizard(ctx context.Context, user *domain.User, id uuid.UUID, action string, step int) (*Snapshot, error)

	// Prefill asks the AI provider for field suggestions and applies them
	// with provenance markers.
	Prefill(ctx context.Context, user *domain.User, id uuid.UUID, prompt string) (*Snapshot, error)

	// Submit runs the submission pipeline.
	Submit(ctx context.Context, user *domain.User, id uuid.UUID) (*SubmitResult, error)

	// Close discards a session. The draft, if any, is kept.
	Close(ctx context.Context, user *domain.User, id uuid.UUID) error
}

// OpenParams are the inputs for opening a session.
type OpenParams struct {
	EntityType    string
	Mode          string // "create" or "edit"
	EntityID      string // Required in edit mode
	InitialValues map[string]any
}

// Hooks are optional callbacks invoked after a submission settles. Both run
// outside the session lock.
type Hooks struct {
	OnSuccess func(entityType string, record map[string]any)
	OnError   func(entityType string, err error)
}

const (
	modeCreate = "create"
	modeEdit   = "edit"
)

// =============================================================================
// Implementation
// =============================================================================

type formSessionService struct {
	catalog *catalog.Catalog
	drafts  *draft.Drafts
	api     *platform.Client
	prefill ai.PrefillProvider
	hooks   Hooks
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// session is the server-side record for one open form.
type session struct {
	mu sync.Mutex

	id           uuid.UUID
	userID       uuid.UUID
	sessionToken string
	cfg          *domain.EntityConfig
	mode         domain.FormMode
	editing      bool
	entityID     string

	state  *form.State
	wizard *wizard.Controller

	// One-shot view flags, consumed by the next snapshot.
	scrollToTop bool
	restored    *RestoredDraft
	notice      string

	// submitted stops autosave once the entity exists.
	submitted bool

	stopAutosave context.CancelFunc
}

// NewFormSessionService wires the session service.
func NewFormSessionService(
	cat *catalog.Catalog,
	drafts *draft.Drafts,
	api *platform.Client,
	prefillProvider ai.PrefillProvider,
	hooks Hooks,
	logger *slog.Logger,
) FormSessionService {
	return &formSessionService{
		catalog:  cat,
		drafts:   drafts,
		api:      api,
		prefill:  prefillProvider,
		hooks:    hooks,
		logger:   logger,
		sessions: make(map[uuid.UUID]*session),
	}
}

// =============================================================================
// Open
// =============================================================================

func (s *formSessionService) Open(ctx context.Context, user *domain.User, sessionToken string, params OpenParams) (*Snapshot, error) {
	const op = "formsession.open"

	cfg, ok := s.catalog.Get(params.EntityType)
	if !ok {
		return nil, domain.NotFound(op, "entity type", params.EntityType)
	}
	if params.Mode == "" {
		params.Mode = modeCreate
	}
	if params.Mode != modeCreate && params.Mode != modeEdit {
		return nil, domain.Invalid(op, "mode must be \"create\" or \"edit\"")
	}
	if params.Mode == modeEdit && params.EntityID == "" {
		return nil, domain.Invalid(op, "entityId is required in edit mode")
	}

	hasInitial := len(params.InitialValues) > 0

	sess := &session{
		id:           uuid.New(),
		userID:       user.ID,
		sessionToken: sessionToken,
		cfg:          cfg,
		mode:         domain.ResolveMode(cfg, hasInitial),
		editing:      params.Mode == modeEdit,
		entityID:     params.EntityID,
		state:        form.New(cfg.DefaultValues, params.InitialValues, cfg.SlugSource),
	}

	if sess.mode == domain.ModeWizard {
		sess.wizard = wizard.New(wizard.BuildSteps(cfg.Wizard, cfg.Templates))
	}

	if !sess.editing {
		s.seedPreferredCurrency(sess, user)
		s.restoreDraft(ctx, sess, user, params.InitialValues)
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	if !sess.editing {
		s.startAutosave(sess)
	}

	metrics.SessionsOpened.WithLabelValues(cfg.Type, string(sess.mode)).Inc()
	metrics.SessionsActive.Inc()
	s.logger.Info("form session opened",
		"session_id", sess.id,
		"entity_type", cfg.Type,
		"mode", sess.mode,
		"edit", sess.editing,
		"user_id", user.ID,
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess), nil
}

// seedPreferredCurrency fills currency fields that have no value yet with
// the user's preferred display currency, when it parses as ISO 4217.
func (s *formSessionService) seedPreferredCurrency(sess *session, user *domain.User) {
	if user.PreferredCurrency == "" {
		return
	}
	if _, err := currency.ParseISO(user.PreferredCurrency); err != nil {
		s.logger.Warn("ignoring malformed preferred currency",
			"user_id", user.ID, "currency", user.PreferredCurrency)
		return
	}

	for _, g := range sess.cfg.Groups {
		for _, f := range g.Fields {
			if f.Kind != domain.InputCurrency {
				continue
			}
			if domain.IsEmptyValue(sess.state.Get(f.Name)) {
				sess.state.MergeDraft(map[string]any{f.Name: user.PreferredCurrency})
			}
		}
	}
}

// restoreDraft applies the draft-restoration policy at open time. External
// intent (meaningful caller-supplied content) takes precedence over a
// resumed draft.
func (s *formSessionService) restoreDraft(ctx context.Context, sess *session, user *domain.User, initial map[string]any) {
	if hasMeaningfulContent(initial) {
		if err := s.drafts.Discard(ctx, sess.cfg.Type, user.ID.String()); err != nil {
			s.logger.Warn("failed to discard superseded draft", "error", err)
		}
		return
	}

	stored, err := s.drafts.Restore(ctx, sess.cfg.Type, user.ID.String())
	if err != nil {
		s.logger.Error("draft restore failed", "error", err, "entity_type", sess.cfg.Type)
		return
	}
	if stored == nil {
		return
	}

	sess.state.MergeDraft(stored.FormData)
	sess.restored = &RestoredDraft{
		SavedAt: stored.SavedAt,
		Ago:     humanize.Time(stored.SavedAt),
	}
	metrics.DraftsRestored.WithLabelValues(sess.cfg.Type).Inc()
}

// hasMeaningfulContent reports whether caller-supplied initial values carry
// real content (a non-empty title or description, e.g. from a deep link).
func hasMeaningfulContent(initial map[string]any) bool {
	for _, key := range []string{"title", "name", "description"} {
		if v, ok := initial[key]; ok {
			if str, ok := v.(string); ok && strings.TrimSpace(str) != "" {
				return true
			}
		}
	}
	return false
}

// =============================================================================
// Autosave
// =============================================================================

// startAutosave runs the per-session autosave loop. Each tick is a single
// synchronous store write; the loop stops when the session closes or the
// entity has been submitted.
func (s *formSessionService) startAutosave(sess *session) {
	ctx, cancel := context.WithCancel(context.Background())
	sess.stopAutosave = cancel

	interval := s.drafts.AutosaveInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.autosaveTick(ctx, sess)
			}
		}
	}()
}

func (s *formSessionService) autosaveTick(ctx context.Context, sess *session) {
	sess.mu.Lock()
	if sess.submitted || !sess.state.IsDirty() {
		sess.mu.Unlock()
		return
	}
	data := sess.state.Data()
	sess.mu.Unlock()

	if !domain.HasAnyValue(data) {
		return
	}

	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.drafts.Save(saveCtx, sess.cfg.Type, sess.userID.String(), data); err != nil {
		s.logger.Warn("draft autosave failed", "error", err, "session_id", sess.id)
		return
	}
	metrics.DraftsSaved.WithLabelValues(sess.cfg.Type).Inc()
}

// =============================================================================
// Lookup and Mutations
// =============================================================================

func (s *formSessionService) lookup(op string, user *domain.User, id uuid.UUID) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NotFound(op, "form session", id.String())
	}
	if sess.userID != user.ID {
		return nil, domain.Forbidden(op, "this form session belongs to another user")
	}
	return sess, nil
}

func (s *formSessionService) Get(_ context.Context, user *domain.User, id uuid.UUID) (*Snapshot, error) {
	sess, err := s.lookup("formsession.get", user, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess), nil
}

func (s *formSessionService) SetField(_ context.Context, user *domain.User, id uuid.UUID, name string, value any) (*Snapshot, error) {
	const op = "formsession.setfield"

	sess, err := s.lookup(op, user, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.Invalid(op, "field name is required")
	}
	if _, ok := sess.cfg.FieldByName(name); !ok {
		return nil, domain.Invalid(op, "unknown field "+name)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state.SetField(name, value, domain.Slugify)
	return s.snapshotLocked(sess), nil
}

func (s *formSessionService) SetActiveField(_ context.Context, user *domain.User, id uuid.UUID, name string) (*domain.Guidance, error) {
	sess, err := s.lookup("formsession.activefield", user, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state.SetActiveField(name)
	if name == "" {
		return nil, nil
	}
	guidance := sess.cfg.GuidanceFor(name)
	return &guidance, nil
}

func (s *formSessionService) ApplyTemplate(_ context.Context, user *domain.User, id uuid.UUID, templateID string) (*Snapshot, error) {
	const op = "formsession.applytemplate"

	sess, err := s.lookup(op, user, id)
	if err != nil {
		return nil, err
	}
	tpl, ok := sess.cfg.TemplateByID(templateID)
	if !ok {
		return nil, domain.NotFound(op, "template", templateID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.state.ApplyTemplate(tpl.Defaults)
	// Template selection supersedes any AI suggestions.
	sess.state.ClearAIProvenance()
	sess.scrollToTop = true

	metrics.TemplatesApplied.WithLabelValues(sess.cfg.Type, tpl.ID).Inc()
	s.logger.Info("template applied",
		"session_id", sess.id, "entity_type", sess.cfg.Type, "template", tpl.ID)

	return s.snapshotLocked(sess), nil
}

func (s *formSessionService) Wizard(_ context.Context, user *domain.User, id uuid.UUID, action string, step int) (*Snapshot, error) {
	const op = "formsession.wizard"

	sess, err := s.lookup(op, user, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.wizard == nil {
		return nil, domain.Invalid(op, "session is not in wizard mode")
	}

	var moved bool
	switch action {
	case "next":
		moved = sess.wizard.Next()
	case "previous":
		moved = sess.wizard.Previous()
	case "skip":
		moved = sess.wizard.Skip()
	case "jump":
		moved = sess.wizard.JumpTo(step)
	default:
		return nil, domain.Invalid(op, "unknown wizard action "+action)
	}

	// Rejected transitions are no-ops, not errors; the snapshot simply
	// shows the unchanged position.
	if moved {
		metrics.WizardTransitions.WithLabelValues(sess.cfg.Type, action).Inc()
	}
	return s.snapshotLocked(sess), nil
}

func (s *formSessionService) Prefill(ctx context.Context, user *domain.User, id uuid.UUID, prompt string) (*Snapshot, error) {
	const op = "formsession.prefill"

	sess, err := s.lookup(op, user, id)
	if err != nil {
		return nil, err
	}
	if s.prefill == nil {
		return nil, domain.Errorf(domain.ENOTIMPL, op, "AI prefill is not configured")
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, domain.Invalid(op, "prompt is required")
	}

	sess.mu.Lock()
	fieldNames := prefillableFields(sess.cfg)
	current := sess.state.Data()
	sess.mu.Unlock()

	// The provider call runs outside the session lock; a slower earlier
	// response can lose to a later one (last writer wins).
	result, err := s.prefill.PrefillForm(ctx, ai.PrefillParams{
		EntityType: sess.cfg.Type,
		Prompt:     prompt,
		FieldNames: fieldNames,
		Current:    current,
		UserID:     user.ID,
	})
	if err != nil {
		metrics.PrefillRequests.WithLabelValues(sess.cfg.Type, metrics.OutcomeError).Inc()
		s.logger.Error("prefill failed", "error", err, "session_id", sess.id)
		return nil, domain.Wrap(err, domain.EUPSTREAM, op, "The assistant could not fill the form. Please try again.")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state.ApplyAIPrefill(result.Values, result.Confidence)
	metrics.PrefillRequests.WithLabelValues(sess.cfg.Type, metrics.OutcomeOK).Inc()
	return s.snapshotLocked(sess), nil
}

// prefillableFields lists the fields the AI may fill: everything except
// choice-free structural kinds the model tends to get wrong.
func prefillableFields(cfg *domain.EntityConfig) []string {
	var names []string
	for _, g := range cfg.Groups {
		for _, f := range g.Fields {
			switch f.Kind {
			case domain.InputDate, domain.InputAddress:
				continue
			}
			names = append(names, f.Name)
		}
	}
	return names
}

func (s *formSessionService) Close(_ context.Context, user *domain.User, id uuid.UUID) error {
	sess, err := s.lookup("formsession.close", user, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if sess.stopAutosave != nil {
		sess.stopAutosave()
	}
	metrics.SessionsActive.Dec()
	s.logger.Info("form session closed", "session_id", id)
	return nil
}
