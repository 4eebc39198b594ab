// Package metrics defines and registers all custom Prometheus metrics for the
// identity API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry at init
// time via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// LoginsTotal counts login attempts by outcome.
// Labels:
//   - result: "success", "not_found", "invalid_password", "disabled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully registered accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successfully registered accounts.",
	},
)

// AdminActionsTotal counts privileged mutations by action name.
// Label:
//   - action: "toggle_role", "toggle_active", "update_group", "delete_user",
//     "system_reset", "create_group", "delete_group"
var AdminActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_actions_total",
		Help:      "Total number of privileged administrative mutations, by action.",
	},
	[]string{"action"},
)

// SnapshotFlushDuration measures how long a full dataset flush takes.
var SnapshotFlushDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "snapshot_flush_duration_seconds",
		Help:      "Duration of whole-dataset snapshot flushes to disk.",
		Buckets:   prometheus.DefBuckets,
	},
)

// SnapshotFlushErrorsTotal counts flushes that failed and were rolled back.
var SnapshotFlushErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_flush_errors_total",
		Help:      "Total number of snapshot flushes that failed.",
	},
)

// OnlineUsers tracks the current size of the presence set.
var OnlineUsers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "online_users",
		Help:      "Number of accounts with a live session against this process.",
	},
)
