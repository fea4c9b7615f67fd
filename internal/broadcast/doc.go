// Package broadcast fans events out to WebSocket clients grouped into named
// logical channels (audience:<debateID>, admin:<debateID>).
//
// The hub runs as a single actor goroutine processing commands from a
// buffered channel, so channel membership needs no locking. Each client gets
// a dedicated writer goroutine; clients that cannot keep up are evicted.
// Within one channel events are delivered in publish order; across channels
// there is no ordering guarantee and no delivery acknowledgement.
package broadcast
