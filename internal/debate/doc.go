// Package debate implements the live debate core: questions, answers, the
// per-debate session state machine and the process-wide session registry.
//
// All operations are plain synchronous functions returning values or errors;
// the websocket router translates the wire protocol's callback mechanics at
// the transport boundary. Outbound events are handed to a Broadcaster and
// delivered fire-and-forget.
package debate
