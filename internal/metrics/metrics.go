// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hub metrics
var (
	// HubActiveChannels tracks the number of logical channels with at least one client
	HubActiveChannels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_active_channels",
			Help: "Number of logical channels with at least one connected client",
		},
	)

	// HubConnectedClients tracks connected WebSocket clients across all channels
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients",
			Help: "Connected WebSocket clients across all channels",
		},
	)

	// HubEventsBroadcastTotal tracks broadcast events by event name
	HubEventsBroadcastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_events_broadcast_total",
			Help: "Events broadcast to channels by event name",
		},
		[]string{"event"},
	)

	// HubSlowClientsEvicted tracks clients dropped for full send buffers
	HubSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Clients evicted because their send buffer was full",
		},
	)

	// WebSocketPingFailures tracks failed keepalive pings
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Failed WebSocket keepalive pings",
		},
	)

	// WebSocketIdleDisconnects tracks connections dropped for inactivity
	WebSocketIdleDisconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_idle_disconnects_total",
			Help: "WebSocket connections dropped after the idle timeout",
		},
	)
)

// Debate metrics
var (
	// DebatesCreatedTotal tracks created debate sessions
	DebatesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "debates_created_total",
			Help: "Debate sessions created",
		},
	)

	// QuestionsPublishedTotal tracks published questions by kind
	QuestionsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questions_published_total",
			Help: "Questions published by kind (open/closed)",
		},
		[]string{"kind"},
	)

	// AnswersRecordedTotal tracks accepted answers by kind
	AnswersRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answers_recorded_total",
			Help: "Accepted answers by kind (open/closed)",
		},
		[]string{"kind"},
	)

	// RouterRequestsTotal tracks inbound protocol requests by action and outcome
	RouterRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_requests_total",
			Help: "Inbound websocket protocol requests by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// PersistenceFailuresTotal tracks failed save operations by entity
	PersistenceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_failures_total",
			Help: "Failed save operations by entity (debate/question/answer)",
		},
		[]string{"entity"},
	)
)

// Relay metrics
var (
	// RelayMessagesTotal tracks cross-instance relay messages by direction
	RelayMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_total",
			Help: "Cross-instance relay messages by direction (published/applied/skipped)",
		},
		[]string{"direction"},
	)
)
