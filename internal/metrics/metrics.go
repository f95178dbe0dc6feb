package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "formflow"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Form session metrics
var (
	SessionsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Form sessions opened, by entity type and mode",
		},
		[]string{"entity_type", "mode"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Currently open form sessions",
		},
	)

	DraftsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_saved_total",
			Help:      "Draft autosaves, by entity type",
		},
		[]string{"entity_type"},
	)

	DraftsRestored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_restored_total",
			Help:      "Drafts restored into a fresh session, by entity type",
		},
		[]string{"entity_type"},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_transitions_total",
			Help:      "Wizard navigation actions, by entity type and action",
		},
		[]string{"entity_type", "action"},
	)

	TemplatesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "templates_applied_total",
			Help:      "Templates applied to open forms, by entity type and template",
		},
		[]string{"entity_type", "template"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submission attempts, by entity type and outcome",
		},
		[]string{"entity_type", "outcome"},
	)

	PrefillRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prefill_requests_total",
			Help:      "AI prefill requests, by entity type and outcome",
		},
		[]string{"entity_type", "outcome"},
	)
)

// Submission outcomes
const (
	OutcomeCreated          = "created"
	OutcomeUpdated          = "updated"
	OutcomeValidationFailed = "validation_failed"
	OutcomeUpstreamError    = "upstream_error"
	OutcomeError            = "error"
	OutcomeOK               = "ok"
)
