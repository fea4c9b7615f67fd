package coordination

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/1996Rosy/server-app/internal/broadcast"
	"github.com/1996Rosy/server-app/internal/metrics"
)

// relayChannel is the shared pub/sub channel all instances exchange debate
// events on.
const relayChannel = "agora:events"

// relayMessage is the envelope exchanged between instances. Frame carries
// the already-encoded client event so receivers can fan it out verbatim.
type relayMessage struct {
	Instance string          `json:"instance"`
	Channel  string          `json:"channel"`
	Frame    json.RawMessage `json:"frame"`
}

// eventHub is the slice of the hub the relay needs.
type eventHub interface {
	Broadcast(channel, event string, payload any)
	BroadcastRaw(channel string, data []byte)
}

// Relay mirrors debate events across instances. It implements the debate
// Broadcaster: local fan-out happens first, then the frame is published to
// Redis tagged with this instance's id. Received frames from other instances
// go straight to the local hub; our own are skipped.
type Relay struct {
	rdb        *redis.Client
	hub        eventHub
	instanceID string
}

func NewRelay(rdb *redis.Client, hub eventHub, instanceID string) *Relay {
	return &Relay{
		rdb:        rdb,
		hub:        hub,
		instanceID: instanceID,
	}
}

// Broadcast delivers the event locally and mirrors it to other instances.
// Publish failures are logged, never surfaced: local participants already
// got the event.
func (r *Relay) Broadcast(channel, event string, payload any) {
	r.hub.Broadcast(channel, event, payload)

	frame, err := json.Marshal(broadcast.Envelope{Event: event, Data: payload})
	if err != nil {
		slog.Error("failed to marshal relay frame", "channel", channel, "event", event, "error", err)
		return
	}

	msg, err := encodeRelayMessage(relayMessage{Instance: r.instanceID, Channel: channel, Frame: frame})
	if err != nil {
		slog.Error("failed to encode relay message", "channel", channel, "error", err)
		return
	}

	if err := r.rdb.Publish(context.Background(), relayChannel, msg).Err(); err != nil {
		slog.Error("failed to publish relay message", "channel", channel, "error", err)
		return
	}
	metrics.RelayMessagesTotal.WithLabelValues("published").Inc()
}

// Start begins listening for events from other instances.
// Blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) {
	pubsub := r.rdb.Subscribe(ctx, relayChannel)
	defer func() {
		_ = pubsub.Close()
	}()

	ch := pubsub.Channel()
	for {
		select {
		case msg := <-ch:
			if msg == nil {
				return
			}
			r.handlePayload([]byte(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}

// handlePayload fans a foreign instance's frame out to local clients.
func (r *Relay) handlePayload(payload []byte) {
	msg, err := decodeRelayMessage(payload)
	if err != nil {
		slog.Warn("invalid relay message", "error", err)
		return
	}

	if msg.Instance == r.instanceID {
		metrics.RelayMessagesTotal.WithLabelValues("skipped").Inc()
		return
	}

	metrics.RelayMessagesTotal.WithLabelValues("applied").Inc()
	r.hub.BroadcastRaw(msg.Channel, msg.Frame)
}

func encodeRelayMessage(msg relayMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func decodeRelayMessage(payload []byte) (relayMessage, error) {
	var msg relayMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return relayMessage{}, fmt.Errorf("failed to decode relay message: %w", err)
	}
	if msg.Channel == "" {
		return relayMessage{}, fmt.Errorf("relay message without channel")
	}
	return msg, nil
}
