package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/1996Rosy/server-app/internal/app"
	"github.com/1996Rosy/server-app/internal/broadcast"
	"github.com/1996Rosy/server-app/internal/config"
	"github.com/1996Rosy/server-app/internal/domain"
	apperrors "github.com/1996Rosy/server-app/internal/errors"
	"github.com/1996Rosy/server-app/internal/router"
)

const sessionMaxAgeDays = 7

// postgresHealthChecker is a minimal interface for database health checks.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	service      *app.Service
	hub          *broadcast.Hub
	router       *router.Router
	admins       domain.AdministratorRepository
	sessionStore *sessions.CookieStore
	db           postgresHealthChecker
	redisClient  *redis.Client
	startTime    time.Time
}

// NewServer wires the HTTP surface. redisClient may be nil when the instance
// runs without cross-instance coordination.
func NewServer(cfg *config.Config, service *app.Service, hub *broadcast.Hub, rt *router.Router, admins domain.AdministratorRepository, db postgresHealthChecker, redisClient *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * sessionMaxAgeDays,
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		service:      service,
		hub:          hub,
		router:       rt,
		admins:       admins,
		sessionStore: sessionStore,
		db:           db,
		redisClient:  redisClient,
		startTime:    time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
