package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth routes
	s.echo.POST("/auth/login", s.handleLogin)
	s.echo.POST("/auth/logout", s.handleLogout, s.requireAdmin)

	// Debate management API (administrators only)
	s.echo.POST("/api/debates", s.handleCreateDebate, s.requireAdmin)
	s.echo.POST("/api/debates/:id/questions", s.handlePublishQuestion, s.requireAdmin)
	s.echo.POST("/api/debates/:id/persist", s.handlePersistDebate, s.requireAdmin)

	// Public read access
	s.echo.GET("/api/debates/:id/questions", s.handleListQuestions)

	// WebSocket endpoints
	s.echo.GET("/ws/debate/:id", s.handleAudienceSocket)
	s.echo.GET("/ws/admin/:id", s.handleAdminSocket, s.requireAdmin)
}
