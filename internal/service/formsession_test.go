package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/calloway-dev/formflow/internal/ai/mock"
	"github.com/calloway-dev/formflow/internal/catalog"
	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/calloway-dev/formflow/internal/draft"
	"github.com/calloway-dev/formflow/internal/platform"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Fixtures
// =============================================================================

type fixture struct {
	svc      FormSessionService
	drafts   *draft.Drafts
	store    *draft.MemoryStore
	user     *domain.User
	apiCalls *atomic.Int32
	srv      *httptest.Server
}

// newFixture wires the service against a fake platform API. handler may be
// nil for tests that never reach the network.
func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	calls := &atomic.Int32{}
	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	store := draft.NewMemoryStore()
	drafts := draft.New(store, draft.Config{
		TTL:              7 * 24 * time.Hour,
		AutosaveInterval: 10 * time.Millisecond,
	}, logger)

	svc := NewFormSessionService(
		catalog.New(),
		drafts,
		platform.New(srv.URL, logger),
		mock.New(logger),
		Hooks{},
		logger,
	)

	return &fixture{
		svc:    svc,
		drafts: drafts,
		store:  store,
		user: &domain.User{
			ID:                uuid.New(),
			Email:             "maker@example.org",
			PreferredCurrency: "CHF",
		},
		apiCalls: calls,
		srv:      srv,
	}
}

func createdResponse(record map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": record})
	}
}

// =============================================================================
// Open
// =============================================================================

func TestOpenResolvesModeFromConfigShape(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	tests := []struct {
		entityType string
		want       domain.FormMode
	}{
		{"project", domain.ModeWizard},
		{"event", domain.ModeTemplateThenForm},
		{"organization", domain.ModeSimple},
	}

	for _, tt := range tests {
		t.Run(tt.entityType, func(t *testing.T) {
			snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: tt.entityType})
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap.Mode)
		})
	}
}

func TestOpenUnknownEntityType(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Open(context.Background(), f.user, "tok", OpenParams{EntityType: "spaceship"})
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestOpenSeedsPreferredCurrency(t *testing.T) {
	f := newFixture(t, nil)

	snap, err := f.svc.Open(context.Background(), f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	assert.Equal(t, "CHF", snap.Data["currency"])
	assert.Equal(t, 0, snap.Data["goal_amount"], "other defaults untouched")
	assert.False(t, snap.IsDirty, "seeding is not a user edit")
}

func TestOpenInitialValuesSuppressGallery(t *testing.T) {
	f := newFixture(t, nil)

	snap, err := f.svc.Open(context.Background(), f.user, "tok", OpenParams{
		EntityType:    "event",
		InitialValues: map[string]any{"title": "Open-air concert"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeSimple, snap.Mode)
	assert.Equal(t, "Open-air concert", snap.Data["title"])
}

// =============================================================================
// Draft Restoration
// =============================================================================

func TestOpenRestoresFreshDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.drafts.Save(ctx, "organization", f.user.ID.String(),
		map[string]any{"name": "Garden Collective"}))

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "organization"})
	require.NoError(t, err)

	assert.Equal(t, "Garden Collective", snap.Data["name"])
	require.NotNil(t, snap.RestoredDraft)
	assert.NotEmpty(t, snap.RestoredDraft.Ago)

	// The restoration notice is one-shot
	snap, err = f.svc.Get(ctx, f.user, snap.SessionID)
	require.NoError(t, err)
	assert.Nil(t, snap.RestoredDraft)
}

func TestOpenSkipsDraftWhenInitialContentSupplied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.drafts.Save(ctx, "organization", f.user.ID.String(),
		map[string]any{"name": "Old draft"}))

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{
		EntityType:    "organization",
		InitialValues: map[string]any{"name": "From deep link"},
	})
	require.NoError(t, err)

	assert.Equal(t, "From deep link", snap.Data["name"])
	assert.Nil(t, snap.RestoredDraft)

	// External intent also deletes the stale draft
	restored, err := f.drafts.Restore(ctx, "organization", f.user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestEditModeDoesNotTouchDrafts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.drafts.Save(ctx, "organization", f.user.ID.String(),
		map[string]any{"name": "Draft"}))

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{
		EntityType: "organization",
		Mode:       "edit",
		EntityID:   "42",
		InitialValues: map[string]any{
			"name": "Existing Org",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Existing Org", snap.Data["name"])

	restored, err := f.drafts.Restore(ctx, "organization", f.user.ID.String())
	require.NoError(t, err)
	require.NotNil(t, restored, "edit mode leaves the create draft alone")
}

func TestAutosavePersistsDirtySessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "organization"})
	require.NoError(t, err)

	_, err = f.svc.SetField(ctx, f.user, snap.SessionID, "name", "Night Shift Bakery")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		restored, err := f.drafts.Restore(ctx, "organization", f.user.ID.String())
		return err == nil && restored != nil && restored.FormData["name"] == "Night Shift Bakery"
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, f.svc.Close(ctx, f.user, snap.SessionID))
}

// =============================================================================
// Field Mutations and Templates
// =============================================================================

func TestSetFieldDerivesSlug(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	snap, err = f.svc.SetField(ctx, f.user, snap.SessionID, "title", "Hello, World!  -- Test")
	require.NoError(t, err)
	assert.Equal(t, "hello-world-test", snap.Data["slug"])
}

func TestSetFieldRejectsUnknownField(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	_, err = f.svc.SetField(ctx, f.user, snap.SessionID, "warp_core", 11)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestApplyTemplateMergesAndScrolls(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	_, err = f.svc.SetField(ctx, f.user, snap.SessionID, "description", "typed first")
	require.NoError(t, err)

	snap, err = f.svc.ApplyTemplate(ctx, f.user, snap.SessionID, "neighborhood")
	require.NoError(t, err)

	assert.Equal(t, 5000, snap.Data["goal_amount"], "template wins")
	assert.Equal(t, "typed first", snap.Data["description"], "unrelated input preserved")
	assert.Equal(t, "CHF", snap.Data["currency"], "preferred currency untouched by this template")
	assert.True(t, snap.ScrollToTop)

	// scrollToTop is one-shot
	snap, err = f.svc.Get(ctx, f.user, snap.SessionID)
	require.NoError(t, err)
	assert.False(t, snap.ScrollToTop)
}

func TestTemplateSupersedesAIPrefill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	snap, err = f.svc.Prefill(ctx, f.user, snap.SessionID, "a solar co-op for the school roof")
	require.NoError(t, err)
	assert.NotEmpty(t, snap.AIFields)

	snap, err = f.svc.ApplyTemplate(ctx, f.user, snap.SessionID, "climate")
	require.NoError(t, err)
	assert.Empty(t, snap.AIFields, "template selection clears AI provenance")
}

func TestActiveFieldGuidance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	g, err := f.svc.SetActiveField(ctx, f.user, snap.SessionID, "goal_amount")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "Setting a goal", g.Title)

	// Unconfigured field gets the neutral fallback, not an error
	g, err = f.svc.SetActiveField(ctx, f.user, snap.SessionID, "tagline")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "Tips", g.Title)
}

// =============================================================================
// Wizard Navigation
// =============================================================================

func TestWizardFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)
	require.NotNil(t, snap.Wizard)
	assert.Equal(t, 0, snap.Wizard.Current)
	assert.NotEmpty(t, snap.Templates, "template step shows the gallery")

	// Skip the optional template step
	snap, err = f.svc.Wizard(ctx, f.user, snap.SessionID, "skip", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Wizard.Current)
	assert.Equal(t, []int{0}, snap.Wizard.Completed)
	assert.Empty(t, snap.Templates, "gallery hidden off the template step")

	// Back to the start; completion is retained
	snap, err = f.svc.Wizard(ctx, f.user, snap.SessionID, "previous", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Wizard.Current)
	assert.Equal(t, []int{0}, snap.Wizard.Completed)

	// Step 2 is neither current nor completed: jump is a silent no-op
	snap, err = f.svc.Wizard(ctx, f.user, snap.SessionID, "jump", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Wizard.Current)
}

func TestWizardNarrowsVisibleGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	// Template step: no fields declared, so no narrowing happens
	assert.NotEmpty(t, snap.Groups)

	snap, err = f.svc.Wizard(ctx, f.user, snap.SessionID, "next", 0)
	require.NoError(t, err)

	// Basics step: only the basics group should remain
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, "Basics", snap.Groups[0].Title)
}

func TestWizardActionOnNonWizardSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "organization"})
	require.NoError(t, err)

	_, err = f.svc.Wizard(ctx, f.user, snap.SessionID, "next", 0)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

// =============================================================================
// Submission
// =============================================================================

func TestSubmitValidationFailureShortCircuits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	result, err := f.svc.Submit(ctx, f.user, snap.SessionID)
	require.NoError(t, err)

	assert.Equal(t, SubmitValidationFailed, result.Status)
	assert.NotEmpty(t, result.FieldErrors["title"])
	assert.Equal(t, int32(0), f.apiCalls.Load(), "no network call on validation failure")

	snap, err = f.svc.Get(ctx, f.user, snap.SessionID)
	require.NoError(t, err)
	assert.False(t, snap.IsSubmitting)
	assert.NotEmpty(t, snap.Errors["title"])
}

func TestSubmitSuccessCreatesAndCleansUp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, createdResponse(map[string]any{
		"id":   float64(7),
		"slug": "solar-farm",
	}))

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	for name, value := range map[string]any{
		"title":       "Solar Farm",
		"description": "Panels for the school roof",
	} {
		_, err = f.svc.SetField(ctx, f.user, snap.SessionID, name, value)
		require.NoError(t, err)
	}
	_, err = f.svc.SetField(ctx, f.user, snap.SessionID, "goal_amount", 5000)
	require.NoError(t, err)

	result, err := f.svc.Submit(ctx, f.user, snap.SessionID)
	require.NoError(t, err)

	assert.Equal(t, SubmitOK, result.Status)
	assert.Equal(t, "/projects/solar-farm", result.RedirectURL)
	assert.Equal(t, int32(1), f.apiCalls.Load())
	assert.NotEmpty(t, result.Notification)

	// Draft deleted on success
	restored, err := f.drafts.Restore(ctx, "project", f.user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestSubmitUpstreamErrorSurfacesMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"message":"A project with this slug already exists"}}`))
	})

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	for name, value := range map[string]any{
		"title":       "Solar Farm",
		"description": "Panels",
	} {
		_, err = f.svc.SetField(ctx, f.user, snap.SessionID, name, value)
		require.NoError(t, err)
	}

	result, err := f.svc.Submit(ctx, f.user, snap.SessionID)
	require.NoError(t, err)

	assert.Equal(t, SubmitUpstreamError, result.Status)
	assert.Equal(t, "A project with this slug already exists", result.GeneralError)
	assert.Equal(t, result.GeneralError, result.Notification)

	snap, err = f.svc.Get(ctx, f.user, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "A project with this slug already exists", snap.GeneralError)
	assert.False(t, snap.IsSubmitting)
}

func TestSubmitEditModeUsesUpdate(t *testing.T) {
	ctx := context.Background()

	var gotMethod, gotPath string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 42, "slug": "x"}})
	})

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{
		EntityType: "organization",
		Mode:       "edit",
		EntityID:   "42",
		InitialValues: map[string]any{
			"name":          "Garden Collective",
			"contact_email": "info@example.org",
		},
	})
	require.NoError(t, err)

	result, err := f.svc.Submit(ctx, f.user, snap.SessionID)
	require.NoError(t, err)

	assert.Equal(t, SubmitOK, result.Status)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/organizations/42", gotPath)
}

// =============================================================================
// Access Control
// =============================================================================

func TestSessionsAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	stranger := &domain.User{ID: uuid.New()}
	_, err = f.svc.Get(ctx, stranger, snap.SessionID)
	require.Error(t, err)
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
}

func TestCloseRemovesSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	snap, err := f.svc.Open(ctx, f.user, "tok", OpenParams{EntityType: "project"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Close(ctx, f.user, snap.SessionID))

	_, err = f.svc.Get(ctx, f.user, snap.SessionID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	err = f.svc.Close(ctx, f.user, snap.SessionID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}
