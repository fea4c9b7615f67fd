package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/1996Rosy/server-app/internal/debate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // participants join from arbitrary origins
	},
}

// handleAudienceSocket joins a participant to a debate's audience channel.
// Unknown debates are rejected before the upgrade so the client gets a
// proper HTTP status instead of a dropped socket.
func (s *Server) handleAudienceSocket(c echo.Context) error {
	return s.serveSocket(c, debate.AudienceChannel)
}

// handleAdminSocket joins an administrator to a debate's admin channel,
// where answerRecorded events are delivered.
func (s *Server) handleAdminSocket(c echo.Context) error {
	return s.serveSocket(c, debate.AdminChannel)
}

func (s *Server) serveSocket(c echo.Context, channelFor func(int64) string) error {
	debateID, err := parseDebateID(c)
	if err != nil {
		return err
	}
	if _, err := s.service.Registry().Lookup(debateID); err != nil {
		return echo.NewHTTPError(404, "debate not found")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "debate_id", debateID, "error", err)
		return nil
	}

	channel := channelFor(debateID)
	if err := s.hub.Register(channel, conn); err != nil {
		slog.Warn("hub rejected connection", "channel", channel, "error", err)
		// Connection already closed by the hub.
		return nil
	}

	// Read pump, blocks until disconnect.
	s.router.Serve(c.Request().Context(), conn, debateID, channel)

	s.hub.Unregister(channel, conn)
	return nil
}
