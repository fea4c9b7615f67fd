package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaLockID is a PostgreSQL advisory lock ID for coordinating schema
// bootstrap across instances. Value: 0x61676f7261 ("agora" in ASCII hex)
const (
	schemaLockID             = 0x61676f7261
	schemaLockReleaseTimeout = 5 * time.Second
)

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	slog.Info("Database SSL mode", "sslmode", extractSSLMode(databaseURL))

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected", "min_conns", poolCfg.MinConns, "max_conns", poolCfg.MaxConns)
	return pool, nil
}

func extractSSLMode(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "unknown"
	}
	mode := strings.ToLower(u.Query().Get("sslmode"))
	if mode == "" {
		return "prefer (default)"
	}
	return mode
}

// Bootstrap creates the schema if it does not exist yet. An advisory lock
// serializes concurrent instances starting against the same database.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for schema bootstrap: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", schemaLockID); err != nil {
		return fmt.Errorf("failed to acquire schema lock: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), schemaLockReleaseTimeout)
		defer cancel()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", schemaLockID); err != nil {
			slog.Error("failed to release schema lock", "error", err)
		}
	}()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS administrators (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS debates (
			id BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			administrator TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			debate_id BIGINT NOT NULL REFERENCES debates(id) ON DELETE CASCADE,
			id BIGINT NOT NULL,
			title TEXT NOT NULL,
			is_open BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			PRIMARY KEY (debate_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS answers (
			debate_id BIGINT NOT NULL,
			question_id BIGINT NOT NULL,
			position INT NOT NULL,
			text TEXT NOT NULL,
			submitter_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			PRIMARY KEY (debate_id, question_id, position),
			FOREIGN KEY (debate_id, question_id) REFERENCES questions(debate_id, id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_debate_id ON questions(debate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(debate_id, question_id)`,
	}

	slog.Info("running schema bootstrap")
	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run schema statement: %w", err)
		}
	}

	return nil
}
