// Package service contains the business logic layer.
//
// This file implements the submission pipeline: default-merge, schema
// validation, the platform API call, structured error mapping, and the
// success side effects (draft cleanup, redirect resolution, hooks).
package service

import (
	"context"
	"errors"
	"maps"

	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/calloway-dev/formflow/internal/form"
	"github.com/calloway-dev/formflow/internal/metrics"
	"github.com/calloway-dev/formflow/internal/platform"
	"github.com/google/uuid"
)

// SubmitResult reports how a submission settled. Exactly one of the three
// shapes is populated:
//   - FieldErrors: validation failed locally, nothing was sent
//   - GeneralError: the platform API rejected or failed the request
//   - Record (+ RedirectURL): the entity was created or updated
type SubmitResult struct {
	Status      string            `json:"status"` // "ok", "validation_failed", "upstream_error"
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	GeneralError string           `json:"generalError,omitempty"`
	Notification string           `json:"notification,omitempty"`
	Record      map[string]any    `json:"record,omitempty"`
	RedirectURL string            `json:"redirectUrl,omitempty"`
}

// Submission statuses
const (
	SubmitOK               = "ok"
	SubmitValidationFailed = "validation_failed"
	SubmitUpstreamError    = "upstream_error"
)

func (s *formSessionService) Submit(ctx context.Context, user *domain.User, id uuid.UUID) (*SubmitResult, error) {
	const op = "formsession.submit"

	sess, err := s.lookup(op, user, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if !sess.state.BeginSubmit() {
		sess.mu.Unlock()
		return nil, domain.Conflict(op, "a submission is already in progress")
	}

	// Merge defaults under the current data so required-but-unedited
	// fields carry their default rather than being absent.
	merged := make(map[string]any, len(sess.cfg.DefaultValues))
	maps.Copy(merged, sess.cfg.DefaultValues)
	maps.Copy(merged, sess.state.Data())

	// Local validation is the only locally-recovered failure path: no
	// network call happens when it fails.
	if ve := form.Validate(sess.cfg, merged); ve != nil {
		sess.state.SetFieldErrors(ve.Fields)
		sess.state.FinishSubmit()
		sess.mu.Unlock()

		metrics.SubmissionsTotal.WithLabelValues(sess.cfg.Type, metrics.OutcomeValidationFailed).Inc()
		s.logger.Info("submission blocked by validation",
			"session_id", sess.id, "entity_type", sess.cfg.Type, "field_count", len(ve.Fields))
		return &SubmitResult{
			Status:      SubmitValidationFailed,
			FieldErrors: ve.Fields,
		}, nil
	}
	sess.mu.Unlock()

	record, apiErr := s.callPlatform(ctx, sess, merged)

	sess.mu.Lock()
	sess.state.FinishSubmit()

	if apiErr != nil {
		message := domain.ErrorMessage(apiErr)
		sess.state.SetGeneralError(message)
		sess.mu.Unlock()

		metrics.SubmissionsTotal.WithLabelValues(sess.cfg.Type, metrics.OutcomeUpstreamError).Inc()
		if s.hooks.OnError != nil {
			s.hooks.OnError(sess.cfg.Type, apiErr)
		}
		// Surfaced as a general error plus a transient notification; no
		// automatic retry.
		return &SubmitResult{
			Status:       SubmitUpstreamError,
			GeneralError: message,
			Notification: message,
		}, nil
	}

	sess.state.MarkClean()
	sess.submitted = true
	sess.mu.Unlock()

	if !sess.editing {
		if err := s.drafts.Discard(ctx, sess.cfg.Type, sess.userID.String()); err != nil {
			s.logger.Warn("failed to delete draft after submit", "error", err, "session_id", sess.id)
		}
		metrics.SubmissionsTotal.WithLabelValues(sess.cfg.Type, metrics.OutcomeCreated).Inc()
	} else {
		metrics.SubmissionsTotal.WithLabelValues(sess.cfg.Type, metrics.OutcomeUpdated).Inc()
	}

	s.logger.Info("entity submitted",
		"session_id", sess.id, "entity_type", sess.cfg.Type, "edit", sess.editing)

	if s.hooks.OnSuccess != nil {
		s.hooks.OnSuccess(sess.cfg.Type, record)
	}

	return &SubmitResult{
		Status:       SubmitOK,
		Record:       record,
		RedirectURL:  domain.BuildSuccessURL(sess.cfg.SuccessRedirect, record),
		Notification: successNotification(sess),
	}, nil
}

// callPlatform issues the create or update call and normalizes failures
// into domain errors.
func (s *formSessionService) callPlatform(ctx context.Context, sess *session, body map[string]any) (map[string]any, error) {
	const op = "formsession.submit"

	var (
		record map[string]any
		err    error
	)
	if sess.editing {
		record, err = s.api.Update(ctx, sess.cfg.APIEndpoint, sess.entityID, sess.sessionToken, body)
	} else {
		record, err = s.api.Create(ctx, sess.cfg.APIEndpoint, sess.sessionToken, body)
	}
	if err == nil {
		return record, nil
	}

	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		return nil, domain.Upstream(err, op, apiErr.Message)
	}
	return nil, domain.Upstream(err, op, "Could not reach the server. Please try again.")
}

func successNotification(sess *session) string {
	if sess.editing {
		return "Your changes have been saved."
	}
	return "Your " + sess.cfg.Type + " has been created."
}
