package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1996Rosy/server-app/internal/domain"
)

// AdminRepo looks up administrator credentials. It implements
// domain.AdministratorRepository.
type AdminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

func (r *AdminRepo) AdministratorID(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM administrators WHERE username = $1`, username).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrAdministratorNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up administrator: %w", err)
	}
	return id, nil
}

func (r *AdminRepo) AdministratorPasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx, `SELECT password_hash FROM administrators WHERE username = $1`, username).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrAdministratorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up administrator: %w", err)
	}
	return hash, nil
}
