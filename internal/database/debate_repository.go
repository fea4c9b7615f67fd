package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1996Rosy/server-app/internal/domain"
)

// DebateRepo persists debates, questions and answers. It implements
// domain.DebateRepository.
type DebateRepo struct {
	pool *pgxpool.Pool
}

func NewDebateRepo(pool *pgxpool.Pool) *DebateRepo {
	return &DebateRepo{pool: pool}
}

func (r *DebateRepo) LastDebateID(ctx context.Context) (int64, error) {
	var lastID int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM debates`).Scan(&lastID)
	if err != nil {
		return 0, fmt.Errorf("failed to query last debate id: %w", err)
	}
	return lastID, nil
}

func (r *DebateRepo) SaveDebate(ctx context.Context, debate domain.DebateRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO debates (id, title, description, administrator)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			administrator = EXCLUDED.administrator
	`, debate.ID, debate.Title, debate.Description, debate.Administrator)
	if err != nil {
		return fmt.Errorf("failed to save debate %d: %w", debate.ID, err)
	}
	return nil
}

func (r *DebateRepo) SaveQuestion(ctx context.Context, question domain.QuestionRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO questions (debate_id, id, title, is_open)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (debate_id, id) DO UPDATE SET
			title = EXCLUDED.title,
			is_open = EXCLUDED.is_open
	`, question.DebateID, question.ID, question.Title, question.IsOpen)
	if err != nil {
		return fmt.Errorf("failed to save question %d of debate %d: %w", question.ID, question.DebateID, err)
	}
	return nil
}

func (r *DebateRepo) SaveAnswer(ctx context.Context, answer domain.AnswerRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO answers (debate_id, question_id, position, text, submitter_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (debate_id, question_id, position) DO UPDATE SET
			text = EXCLUDED.text,
			submitter_id = EXCLUDED.submitter_id
	`, answer.DebateID, answer.QuestionID, answer.Position, answer.Text, answer.SubmitterID)
	if err != nil {
		return fmt.Errorf("failed to save answer %d/%d/%d: %w", answer.DebateID, answer.QuestionID, answer.Position, err)
	}
	return nil
}
