// Package metrics defines the custom Prometheus metrics of the LMS API. It
// is the single source of truth for metric names, labels and help strings.
//
// Call MustRegister once per registry before serving /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lms"

// ── Authentication ────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive", "invalid_request" or "error"
var LoginAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts accounts created through self-registration.
// Label:
//   - role: the role the account was created with
var RegistrationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered accounts, by role.",
	},
	[]string{"role"},
)

// AuthFailuresTotal counts requests rejected by the identity resolver.
// Label:
//   - reason: "missing_token", "invalid_token", "expired_token", "user_not_found", "inactive" or "error"
var AuthFailuresTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of protected requests rejected during authentication.",
	},
	[]string{"reason"},
)

// ── Rate limiting ─────────────────────────────────────────────────────────────

// RateLimitDecisionsTotal counts rate-limit checks.
// Label:
//   - result: "allowed", "blocked" or "error" (limiter unavailable, request allowed)
var RateLimitDecisionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Total number of rate-limit decisions, by result.",
	},
	[]string{"result"},
)

// ── Admin ─────────────────────────────────────────────────────────────────────

// BulkOperationsTotal counts bulk user operations.
// Label:
//   - operation: "updateStatus", "assignCollege" or "delete"
var BulkOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_operations_total",
		Help:      "Total number of admin bulk operations executed, by operation.",
	},
	[]string{"operation"},
)

// BulkAffectedUsers observes how many users each bulk operation touched.
var BulkAffectedUsers = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bulk_affected_users",
		Help:      "Number of users affected per bulk operation.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 6), // 1, 4, 16, 64, 256, 1024
	},
)

// EnrollmentsTotal counts successful course enrollments.
var EnrollmentsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_total",
		Help:      "Total number of course enrollments created.",
	},
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		LoginAttemptsTotal,
		RegistrationsTotal,
		AuthFailuresTotal,
		RateLimitDecisionsTotal,
		BulkOperationsTotal,
		BulkAffectedUsers,
		EnrollmentsTotal,
	}
}

// MustRegister adds every custom metric to reg. The same collectors may be
// registered with several registries.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(collectors()...)
}
