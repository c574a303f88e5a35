// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// TokenVerificationsTotal counts bearer token checks.
// Label:
//   - result: "ok", "expired" or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "wrong_password", "unknown_email" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts requests stopped by the role gate.
// Label:
//   - reason: "no_identity", "role", "banned" or "subject_gone"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the role gate, by reason.",
	},
	[]string{"reason"},
)

// ValidationFailuresTotal counts payloads rejected by the request validator.
// Label:
//   - schema: the schema name (e.g. "create-user")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of request payloads rejected by schema validation.",
	},
	[]string{"schema"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by outcome.
// Label:
//   - result: "stored", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by outcome.",
	},
	[]string{"result"},
)
