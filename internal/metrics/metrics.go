package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wakerace_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wakerace_rooms_created_total",
			Help: "Total rooms created",
		},
	)

	ParticipantsJoined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wakerace_participants_joined_total",
			Help: "Total participants joined",
		},
	)

	WakeEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wakerace_wake_events_total",
			Help: "Total successful wake events",
		},
	)

	CommentsPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wakerace_comments_posted_total",
			Help: "Total winner/loser comments posted",
		},
	)

	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wakerace_ws_connections_active",
			Help: "Currently connected WebSocket clients",
		},
	)
)
