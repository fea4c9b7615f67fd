// Package server provides the HTTP and WebSocket surface: administrator
// authentication, the debate management API and the two participant socket
// endpoints.
package server
