// Package router dispatches WebSocket request frames to debate operations
// and routes the correlated replies back through the client's writer.
package router
