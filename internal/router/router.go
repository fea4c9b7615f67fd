package router

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/1996Rosy/server-app/internal/debate"
	"github.com/1996Rosy/server-app/internal/logging"
	"github.com/1996Rosy/server-app/internal/metrics"
)

// Actions accepted over the WebSocket request channel.
const (
	ActionGetQuestions       = "getQuestions"
	ActionAnswerQuestion     = "answerQuestion"
	ActionAnswerOpenQuestion = "answerOpenQuestion"
)

// Request is the inbound frame. ID correlates the reply; a request without
// an id has no way to receive one and is dropped without a response.
type Request struct {
	ID     *int64          `json:"id"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Reply is the outbound response frame for one request.
type Reply struct {
	ID   int64 `json:"id"`
	OK   bool  `json:"ok"`
	Data any   `json:"data,omitempty"`
}

type answerQuestionData struct {
	QuestionID *int64 `json:"questionId"`
	AnswerID   *int64 `json:"answerId"`
}

type answerOpenQuestionData struct {
	QuestionID *int64  `json:"questionId"`
	Answer     *string `json:"answer"`
}

// DebateService is the slice of the application service the router needs.
type DebateService interface {
	ListQuestions(debateID int64) ([]debate.FormattedQuestion, error)
	RecordClosedAnswer(debateID, questionID, answerID int64) bool
	RecordOpenAnswer(ctx context.Context, debateID, questionID int64, text, submitterID string) bool
}

// ReplySender delivers a reply frame to one client of a channel.
type ReplySender interface {
	Send(channel string, conn *websocket.Conn, data []byte)
}

// Router dispatches request frames for established debate connections.
type Router struct {
	service DebateService
	sender  ReplySender
}

func NewRouter(service DebateService, sender ReplySender) *Router {
	return &Router{service: service, sender: sender}
}

// Serve runs the read pump for one connection until it disconnects. Every
// connection gets an opaque id that tags its open answers.
func (r *Router) Serve(ctx context.Context, conn *websocket.Conn, debateID int64, channel string) {
	connID := uuid.NewString()
	log := logging.WithConnection(connID).With("debate_id", debateID, "channel", channel)
	log.Debug("connection serving")

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Debug("connection closed", "error", err)
			return
		}
		r.Dispatch(ctx, conn, connID, debateID, channel, message)
	}
}

// Dispatch handles a single request frame. Malformed frames and frames
// without a correlation id are dropped silently; the connection stays alive.
func (r *Router) Dispatch(ctx context.Context, conn *websocket.Conn, connID string, debateID int64, channel string, message []byte) {
	var req Request
	if err := json.Unmarshal(message, &req); err != nil {
		metrics.RouterRequestsTotal.WithLabelValues("unknown", "malformed").Inc()
		slog.Debug("dropping malformed request", "connection_id", connID, "error", err)
		return
	}
	if req.ID == nil {
		metrics.RouterRequestsTotal.WithLabelValues(req.Action, "dropped").Inc()
		slog.Debug("dropping request without correlation id", "connection_id", connID, "action", req.Action)
		return
	}

	reply := r.handle(ctx, req, connID, debateID)

	outcome := "rejected"
	if reply.OK {
		outcome = "ok"
	}
	metrics.RouterRequestsTotal.WithLabelValues(req.Action, outcome).Inc()

	data, err := json.Marshal(reply)
	if err != nil {
		slog.Error("failed to marshal reply", "connection_id", connID, "error", err)
		return
	}
	r.sender.Send(channel, conn, data)
}

func (r *Router) handle(ctx context.Context, req Request, connID string, debateID int64) Reply {
	reply := Reply{ID: *req.ID}

	switch req.Action {
	case ActionGetQuestions:
		questions, err := r.service.ListQuestions(debateID)
		if err != nil {
			return reply
		}
		reply.OK = true
		reply.Data = questions

	case ActionAnswerQuestion:
		var data answerQuestionData
		if err := json.Unmarshal(req.Data, &data); err != nil || data.QuestionID == nil || data.AnswerID == nil {
			return reply
		}
		reply.OK = r.service.RecordClosedAnswer(debateID, *data.QuestionID, *data.AnswerID)

	case ActionAnswerOpenQuestion:
		var data answerOpenQuestionData
		if err := json.Unmarshal(req.Data, &data); err != nil || data.QuestionID == nil || data.Answer == nil {
			return reply
		}
		reply.OK = r.service.RecordOpenAnswer(ctx, debateID, *data.QuestionID, *data.Answer, connID)

	default:
		slog.Debug("unknown action", "connection_id", connID, "action", req.Action)
	}

	return reply
}
