// Package metrics defines the custom Prometheus metrics of the taskflow API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics register with the default registry on package init, so importing the
// package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskflow"

// ── Task metrics ──────────────────────────────────────────────────────────────

// TaskMutationsTotal counts task mutations attempted through the API.
// Labels:
//   - op: "create", "update", "update_status" or "delete"
//   - result: "ok", "forbidden", "not_found" or "error"
var TaskMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_mutations_total",
		Help:      "Total number of task mutations, by operation and result.",
	},
	[]string{"op", "result"},
)

// TasksCompletedTotal counts tasks moved to done.
var TasksCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_completed_total",
		Help:      "Total number of tasks moved to the done status.",
	},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts provisioning attempts.
// Labels:
//   - role: requested role
//   - result: "ok" or "error"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user provisioning attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// LoginsTotal counts sign-in attempts.
// Label:
//   - result: "ok", "invalid" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsPublishedTotal counts realtime publish attempts.
// Label:
//   - result: "ok", "error" or "dropped" (queue full)
var NotificationsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_published_total",
		Help:      "Total number of realtime notification publishes, by result.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks pending notifications per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationPublishDuration measures one realtime publish from dequeue to ack.
var NotificationPublishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_publish_duration_seconds",
		Help:      "Duration of a realtime notification publish.",
		Buckets:   prometheus.DefBuckets,
	},
)
