// Package metrics defines and registers all custom Prometheus metrics for the
// task manager API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskmanager"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and signup outcomes.
// Labels:
//   - action: "login" or "signup"
//   - result: "success", "invalid_credentials", "throttled", "invalid_invitation", "user_exists", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and signup attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// ── Invitation metrics ────────────────────────────────────────────────────────

// InvitationsIssuedTotal counts invitations issued or resent.
// Label:
//   - kind: "created" or "resent"
var InvitationsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_issued_total",
		Help:      "Total number of invitations issued, by kind.",
	},
	[]string{"kind"},
)

// InvitationDeliveriesTotal counts delivery attempts made by the dispatcher.
// Label:
//   - result: "delivered", "failed" or "dropped"
var InvitationDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitation_deliveries_total",
		Help:      "Total number of invitation delivery attempts, by result.",
	},
	[]string{"result"},
)

// DeliveryQueueDepth tracks the number of notices waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DeliveryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "delivery_queue_depth",
		Help:      "Current number of invitation notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TaskOperationsTotal counts successful task operations.
// Label:
//   - op: "create", "update" or "delete"
var TaskOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_operations_total",
		Help:      "Total number of successful task mutations, by operation.",
	},
	[]string{"op"},
)

// TaskListDuration measures how long a task listing takes.
// Label:
//   - mode: "offset" or "cursor"
var TaskListDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "task_list_duration_seconds",
		Help:      "Duration of task listings, by pagination mode.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"mode"},
)
