package domain

import "context"

// --- Persistence records ---

// DebateRecord is the durable shape of a debate session.
type DebateRecord struct {
	ID            int64
	Title         string
	Description   string
	Administrator string
}

// QuestionRecord is the durable shape of a published question.
type QuestionRecord struct {
	ID       int64
	DebateID int64
	Title    string
	IsOpen   bool
}

// AnswerRecord is the durable shape of one answer entry. Position is the
// answer's index in the question's ordered list; SubmitterID is empty for
// closed-form options.
type AnswerRecord struct {
	DebateID    int64
	QuestionID  int64
	Position    int
	Text        string
	SubmitterID string
}

// --- Collaborator interfaces ---

// DebateRepository abstracts durable storage for debates, questions and
// answers. Saves are called after the in-memory operation succeeded; a
// failed save is reported upward but never rolls back in-memory state.
type DebateRepository interface {
	// LastDebateID returns the highest persisted debate id, or 0 if none.
	LastDebateID(ctx context.Context) (int64, error)

	SaveDebate(ctx context.Context, debate DebateRecord) error
	SaveQuestion(ctx context.Context, question QuestionRecord) error
	SaveAnswer(ctx context.Context, answer AnswerRecord) error
}

// AdministratorRepository abstracts administrator credential lookup. It is
// consumed by the authentication layer only, never by the debate core.
type AdministratorRepository interface {
	AdministratorID(ctx context.Context, username string) (int64, error)
	AdministratorPasswordHash(ctx context.Context, username string) (string, error)
}
