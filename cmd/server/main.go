package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/1996Rosy/server-app/internal/app"
	"github.com/1996Rosy/server-app/internal/broadcast"
	"github.com/1996Rosy/server-app/internal/config"
	"github.com/1996Rosy/server-app/internal/coordination"
	"github.com/1996Rosy/server-app/internal/database"
	"github.com/1996Rosy/server-app/internal/debate"
	"github.com/1996Rosy/server-app/internal/logging"
	"github.com/1996Rosy/server-app/internal/router"
	"github.com/1996Rosy/server-app/internal/server"
	"github.com/1996Rosy/server-app/internal/version"
)

func setupConfig() *config.Config {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Bootstrap(ctx, pool); err != nil {
		slog.Error("Failed to bootstrap schema", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupOptionalRedis(cfg *config.Config) *goredis.Client {
	if cfg.RedisURL == "" {
		slog.Info("Redis not configured, running single-instance")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := coordination.Connect(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, hub *broadcast.Hub, cancelCoordination context.CancelFunc, coordinationDone *sync.WaitGroup) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		hub.Stop()

		cancelCoordination()
		coordinationDone.Wait()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting",
		"env", cfg.AppEnv, "port", cfg.Port, "instance_id", cfg.InstanceID, "version", version.Get().Version)

	pool := setupDB(cfg)
	defer pool.Close()

	debateRepo := database.NewDebateRepo(pool)
	adminRepo := database.NewAdminRepo(pool)

	// Seed the session id sequence from history so ids never collide.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	lastID, err := debateRepo.LastDebateID(ctx)
	cancel()
	if err != nil {
		slog.Error("Failed to read last debate id", "error", err)
		os.Exit(1)
	}
	registry := debate.NewRegistry(lastID)
	slog.Info("Debate registry seeded", "last_debate_id", lastID)

	hub := broadcast.NewHub(clock, cfg.MaxClientsPerChannel)

	// With Redis configured, events relay across instances; without it the
	// hub alone serves this single instance.
	coordinationCtx, cancelCoordination := context.WithCancel(context.Background())
	var coordinationDone sync.WaitGroup
	var events debate.Broadcaster = hub
	redisClient := setupOptionalRedis(cfg)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()

		relay := coordination.NewRelay(redisClient, hub, cfg.InstanceID)
		events = relay
		coordinationDone.Add(1)
		go func() {
			defer coordinationDone.Done()
			relay.Start(coordinationCtx)
		}()

		instances := coordination.NewInstanceRegistry(
			redisClient, cfg.InstanceID, 15*time.Second, version.Get().Version, registry.Count)
		coordinationDone.Add(1)
		go func() {
			defer coordinationDone.Done()
			instances.Start(coordinationCtx)
		}()
	}

	appSvc := app.NewService(registry, debateRepo, events)
	rt := router.NewRouter(appSvc, hub)

	srv := server.NewServer(cfg, appSvc, hub, rt, adminRepo, pool, redisClient)

	done := runGracefulShutdown(srv, hub, cancelCoordination, &coordinationDone)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
