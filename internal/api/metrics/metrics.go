// Package metrics defines and registers the custom Prometheus metrics for the
// contract desk. It is the single source of truth for metric names, labels,
// and help strings; collectors register themselves with the default registry
// at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contract_desk"

// ── Contract metrics ─────────────────────────────────────────────────────────

// ContractsCreatedTotal counts accepted submissions.
// Label:
//   - type: the operation category (e.g. "data_extraction")
var ContractsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contracts_created_total",
		Help:      "Total number of contracts submitted.",
	},
	[]string{"type"},
)

// ContractStatusUpdatesTotal counts admin status transitions.
// Label:
//   - status: the status that was applied
var ContractStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contract_status_updates_total",
		Help:      "Total number of contract status updates, by resulting status.",
	},
	[]string{"status"},
)

// NotificationsTotal counts outbound contract notifications.
// Label:
//   - result: "sent" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of contract notification dispatches, by result.",
	},
	[]string{"result"},
)

// ── Auth metrics ─────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts credential checks.
// Labels:
//   - path: "client" or "admin"
//   - outcome: "success", "failure" or "denied" (valid credentials, wrong role)
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by path and outcome.",
	},
	[]string{"path", "outcome"},
)

// RegistrationsTotal counts successful self-registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful client registrations.",
	},
)

// RateLimitedTotal counts requests rejected by the fixed-window limiter.
// Label:
//   - scope: "login" or "register"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting, by scope.",
	},
	[]string{"scope"},
)

// SessionsActive tracks live (unexpired) sessions, refreshed by the prune
// sweep.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of unexpired sessions in the store.",
	},
)
