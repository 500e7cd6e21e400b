// Package metrics defines the custom Prometheus metrics shared by the auth API
// and the task application. HTTP request metrics come from echoprometheus;
// this package only covers domain events.
//
// All metrics register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// ── Token issuer ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts credential checks at the issuer.
// Label:
//   - result: "success" or "invalid_credentials"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts at the token issuer, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration outcomes.
// Label:
//   - result: "created" or "duplicate"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "registrations_total",
		Help:      "Total number of registration requests, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts signed tokens by role.
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "tokens_issued_total",
		Help:      "Total number of identity tokens issued, by role.",
	},
	[]string{"role"},
)

// ── Session bridge ────────────────────────────────────────────────────────────

// SessionLoginsTotal counts bridge outcomes in the task application.
// Label:
//   - result: "success", "invalid_credentials", "unavailable" or "error"
var SessionLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "app",
		Name:      "session_logins_total",
		Help:      "Total number of session logins through the bridge, by result.",
	},
	[]string{"result"},
)

// ── Employee cache ────────────────────────────────────────────────────────────

// EmployeeCacheTotal counts cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var EmployeeCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "app",
		Name:      "employee_cache_total",
		Help:      "Total number of employee cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Notifications ─────────────────────────────────────────────────────────────

// NotificationsCreatedTotal counts notifications by the event that produced them.
// Label:
//   - kind: "assignment" or "comment"
var NotificationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "app",
		Name:      "notifications_created_total",
		Help:      "Total number of notifications created, by kind.",
	},
	[]string{"kind"},
)
