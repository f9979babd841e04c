package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsCreated counts persisted notifications by type.
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safeshift_notifications_created_total",
			Help: "Total number of notifications created",
		},
		[]string{"type"},
	)

	// BroadcastFanout records how many notifications each role broadcast produced.
	BroadcastFanout = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "safeshift_notification_broadcast_fanout",
			Help:    "Notifications created per role broadcast",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		},
	)

	// NotificationsExpired counts notifications removed by scheduled cleanup.
	NotificationsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safeshift_notifications_expired_total",
			Help: "Total number of notifications deleted by expiry cleanup",
		},
	)
)
