// Package app provides the application service layer.
//
// Orchestrates use cases: debate creation, question publishing, answer
// recording and persistence cascades. Sits between the transport layers and
// the debate core. Depends on domain interfaces, not concrete
// implementations.
package app
