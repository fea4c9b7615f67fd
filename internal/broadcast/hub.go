package broadcast

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/1996Rosy/server-app/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
)

// Envelope is the outbound event frame written to clients.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type channelClients map[*websocket.Conn]*clientWriter

// hubCmd is the command interface for the Hub actor.
type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	channel      string
	connection   *websocket.Conn
	errorChannel chan error
}

type unregisterCmd struct {
	baseHubCmd
	channel    string
	connection *websocket.Conn
}

type broadcastCmd struct {
	baseHubCmd
	channel string
	data    []byte
}

type sendCmd struct {
	baseHubCmd
	channel    string
	connection *websocket.Conn
	data       []byte
}

type clientCountCmd struct {
	baseHubCmd
	channel      string
	replyChannel chan int
}

type stopCmd struct {
	baseHubCmd
}

// Hub manages WebSocket connections grouped into named logical channels.
// A channel comes into existence with its first client and is destroyed
// when the last client leaves.
type Hub struct {
	cmdCh                chan hubCmd
	clock                clockwork.Clock
	channels             map[string]channelClients
	maxClientsPerChannel int
	done                 chan struct{}
}

// NewHub creates a hub and starts its actor goroutine.
// maxClientsPerChannel caps connections per channel (resource exhaustion guard).
func NewHub(clock clockwork.Clock, maxClientsPerChannel int) *Hub {
	h := &Hub{
		cmdCh:                make(chan hubCmd, 256),
		clock:                clock,
		channels:             make(map[string]channelClients),
		maxClientsPerChannel: maxClientsPerChannel,
		done:                 make(chan struct{}),
	}
	go h.run()
	return h
}

// Register adds a client to a channel, creating the channel if needed.
// Returns an error if the channel is at capacity.
func (h *Hub) Register(channel string, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- registerCmd{channel: channel, connection: conn, errorChannel: errCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.Chan():
		return fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a client from a channel.
func (h *Hub) Unregister(channel string, conn *websocket.Conn) {
	h.cmdCh <- unregisterCmd{channel: channel, connection: conn}
}

// Broadcast marshals an event envelope and fans it out to every client of
// the channel. Fire-and-forget: marshal errors are logged, never returned.
func (h *Hub) Broadcast(channel, event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		slog.Error("failed to marshal broadcast event", "channel", channel, "event", event, "error", err)
		return
	}
	metrics.HubEventsBroadcastTotal.WithLabelValues(event).Inc()
	h.cmdCh <- broadcastCmd{channel: channel, data: data}
}

// BroadcastRaw fans a pre-marshalled frame out to a channel. Used by the
// cross-instance relay, which receives frames already encoded.
func (h *Hub) BroadcastRaw(channel string, data []byte) {
	h.cmdCh <- broadcastCmd{channel: channel, data: data}
}

// Send writes a frame to a single client of a channel. Request replies go
// through the client's writer so they never interleave with broadcasts.
func (h *Hub) Send(channel string, conn *websocket.Conn, data []byte) {
	h.cmdCh <- sendCmd{channel: channel, connection: conn, data: data}
}

// ClientCount returns the number of clients in a channel, or -1 on timeout.
func (h *Hub) ClientCount(channel string) int {
	replyCh := make(chan int, 1)
	h.cmdCh <- clientCountCmd{channel: channel, replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("ClientCount timed out", "channel", channel, "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts the hub down, closing all client connections. Blocks until the
// actor goroutine exits or the stop timeout is reached.
func (h *Hub) Stop() {
	h.cmdCh <- stopCmd{}

	timer := h.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		slog.Info("hub stopped")
	case <-timer.Chan():
		slog.Warn("hub stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (h *Hub) run() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("hub panic recovered", "panic", r)
			h.closeAllClients("internal error")
		}
	}()
	defer close(h.done)

	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			h.handleRegister(c)
		case unregisterCmd:
			h.handleUnregister(c)
		case broadcastCmd:
			h.handleBroadcast(c)
		case sendCmd:
			h.handleSend(c)
		case clientCountCmd:
			c.replyChannel <- len(h.channels[c.channel])
		case stopCmd:
			h.handleStop()
			return
		default:
			slog.Warn("hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
		}
	}
}

func (h *Hub) handleRegister(c registerCmd) {
	clients, exists := h.channels[c.channel]
	if !exists {
		clients = make(channelClients)
		h.channels[c.channel] = clients
		metrics.HubActiveChannels.Set(float64(len(h.channels)))
	}

	if len(clients) >= h.maxClientsPerChannel {
		slog.Warn("rejecting client: channel at capacity", "channel", c.channel, "max_clients", h.maxClientsPerChannel)
		c.connection.Close()
		c.errorChannel <- fmt.Errorf("max clients per channel (%d) reached", h.maxClientsPerChannel)
		return
	}

	clients[c.connection] = newClientWriter(c.connection, h.clock)
	metrics.HubConnectedClients.Inc()

	slog.Debug("client registered", "channel", c.channel, "total_clients", len(clients))
	c.errorChannel <- nil
}

func (h *Hub) handleUnregister(c unregisterCmd) {
	clients, exists := h.channels[c.channel]
	if !exists {
		return
	}

	cw, exists := clients[c.connection]
	if !exists {
		return
	}

	cw.stop()
	delete(clients, c.connection)
	metrics.HubConnectedClients.Dec()

	if len(clients) == 0 {
		delete(h.channels, c.channel)
		metrics.HubActiveChannels.Set(float64(len(h.channels)))
		slog.Debug("last client left, channel destroyed", "channel", c.channel)
	} else {
		slog.Debug("client unregistered", "channel", c.channel, "remaining_clients", len(clients))
	}
}

func (h *Hub) handleBroadcast(c broadcastCmd) {
	clients, exists := h.channels[c.channel]
	if !exists {
		return
	}

	var slow []*websocket.Conn
	for conn, writer := range clients {
		select {
		case writer.sendChannel <- c.data:
		default:
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("disconnecting slow client", "channel", c.channel)
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(unregisterCmd{channel: c.channel, connection: conn})
	}
}

func (h *Hub) handleSend(c sendCmd) {
	writer, exists := h.channels[c.channel][c.connection]
	if !exists {
		return
	}

	select {
	case writer.sendChannel <- c.data:
	default:
		slog.Warn("disconnecting slow client on reply", "channel", c.channel)
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(unregisterCmd{channel: c.channel, connection: c.connection})
	}
}

func (h *Hub) handleStop() {
	totalClients := 0
	for _, clients := range h.channels {
		totalClients += len(clients)
	}
	slog.Info("hub shutting down", "channels", len(h.channels), "total_clients", totalClients)

	h.closeAllClients("server shutting down")
}

// closeAllClients closes every client connection with the given reason.
// Used during graceful shutdown and panic recovery.
func (h *Hub) closeAllClients(reason string) {
	for channel, clients := range h.channels {
		for _, cw := range clients {
			cw.stopGraceful(reason)
		}
		delete(h.channels, channel)
	}
	metrics.HubActiveChannels.Set(0)
	metrics.HubConnectedClients.Set(0)
}
