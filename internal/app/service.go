package app

import (
	"context"

	"github.com/1996Rosy/server-app/internal/debate"
	"github.com/1996Rosy/server-app/internal/domain"
	"github.com/1996Rosy/server-app/internal/errors"
	"github.com/1996Rosy/server-app/internal/logging"
	"github.com/1996Rosy/server-app/internal/metrics"
)

// Service wires the debate registry to durable storage. In-memory state is
// the source of truth during a live debate: a failed save is reported upward
// but never rolls back what participants already saw.
type Service struct {
	registry *debate.Registry
	repo     domain.DebateRepository
	events   debate.Broadcaster
}

func NewService(registry *debate.Registry, repo domain.DebateRepository, events debate.Broadcaster) *Service {
	return &Service{
		registry: registry,
		repo:     repo,
		events:   events,
	}
}

// Registry exposes the session registry for transport-layer lookups.
func (s *Service) Registry() *debate.Registry {
	return s.registry
}

// CreateDebate registers a new session and saves its record. The session
// stays registered even when the save fails.
func (s *Service) CreateDebate(ctx context.Context, title, description, administrator string) (*debate.Session, error) {
	if title == "" {
		return nil, errors.ValidationError("debate title is required")
	}

	session := s.registry.Create(title, description, administrator, s.events)
	metrics.DebatesCreatedTotal.Inc()
	logging.WithDebate(session.ID()).Info("debate created", "administrator", administrator)

	record := domain.DebateRecord{
		ID:            session.ID(),
		Title:         title,
		Description:   description,
		Administrator: administrator,
	}
	if err := s.repo.SaveDebate(ctx, record); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("debate").Inc()
		return session, errors.PersistenceError("failed to save debate", err).
			WithContext("debate_id", session.ID())
	}

	return session, nil
}

// PublishQuestion creates a question on the session, broadcasts it to the
// audience and saves the question plus its fixed options. The save batch
// aborts on the first failure; entries already written stay written.
func (s *Service) PublishQuestion(ctx context.Context, debateID int64, title string, options []string, isOpen bool) (debate.FormattedQuestion, error) {
	session, err := s.registry.Lookup(debateID)
	if err != nil {
		return debate.FormattedQuestion{}, errors.NotFoundError("debate not found").
			WithContext("debate_id", debateID)
	}

	q, err := session.CreateQuestion(title, options, isOpen)
	if err != nil {
		return debate.FormattedQuestion{}, errors.ValidationError(err.Error()).
			WithContext("debate_id", debateID)
	}
	session.Publish(q)
	metrics.QuestionsPublishedTotal.WithLabelValues(questionKind(isOpen)).Inc()

	view := q.Format()
	if err := s.saveQuestion(ctx, debateID, view, isOpen); err != nil {
		return view, err
	}
	return view, nil
}

func (s *Service) saveQuestion(ctx context.Context, debateID int64, view debate.FormattedQuestion, isOpen bool) error {
	record := domain.QuestionRecord{
		ID:       view.ID,
		DebateID: debateID,
		Title:    view.Title,
		IsOpen:   isOpen,
	}
	if err := s.repo.SaveQuestion(ctx, record); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("question").Inc()
		return errors.PersistenceError("failed to save question", err).
			WithContext("debate_id", debateID).
			WithContext("question_id", view.ID)
	}

	for i, opt := range view.Answers {
		answer := domain.AnswerRecord{
			DebateID:   debateID,
			QuestionID: view.ID,
			Position:   i,
			Text:       opt,
		}
		if err := s.repo.SaveAnswer(ctx, answer); err != nil {
			metrics.PersistenceFailuresTotal.WithLabelValues("answer").Inc()
			return errors.PersistenceError("failed to save answer option", err).
				WithContext("debate_id", debateID).
				WithContext("question_id", view.ID).
				WithContext("position", i)
		}
	}
	return nil
}

// ListQuestions returns the public views of a session's published questions.
func (s *Service) ListQuestions(debateID int64) ([]debate.FormattedQuestion, error) {
	session, err := s.registry.Lookup(debateID)
	if err != nil {
		return nil, errors.NotFoundError("debate not found").WithContext("debate_id", debateID)
	}
	return session.ListQuestions(), nil
}

// RecordClosedAnswer forwards a positional answer to the session. Closed
// answers live only as admin-channel events, so nothing is persisted here.
func (s *Service) RecordClosedAnswer(debateID, questionID, answerID int64) bool {
	session, err := s.registry.Lookup(debateID)
	if err != nil {
		return false
	}
	ok := session.RecordClosedAnswer(questionID, answerID)
	if ok {
		metrics.AnswersRecordedTotal.WithLabelValues("closed").Inc()
	}
	return ok
}

// RecordOpenAnswer appends a free-text answer and saves it at its assigned
// position. A failed save is logged and counted but does not undo the
// in-memory append.
func (s *Service) RecordOpenAnswer(ctx context.Context, debateID, questionID int64, text, submitterID string) bool {
	session, err := s.registry.Lookup(debateID)
	if err != nil {
		return false
	}

	position, ok := session.RecordOpenAnswer(questionID, text, submitterID)
	if !ok {
		return false
	}
	metrics.AnswersRecordedTotal.WithLabelValues("open").Inc()

	record := domain.AnswerRecord{
		DebateID:    debateID,
		QuestionID:  questionID,
		Position:    position,
		Text:        text,
		SubmitterID: submitterID,
	}
	if err := s.repo.SaveAnswer(ctx, record); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("answer").Inc()
		logging.WithError(err).Error("failed to save open answer",
			"debate_id", debateID, "question_id", questionID, "position", position)
	}
	return true
}

// PersistDebate writes a full snapshot of one session: the debate record,
// then each question with its answers in publish order. The cascade aborts
// on the first failure and never rolls back earlier writes.
func (s *Service) PersistDebate(ctx context.Context, debateID int64) error {
	session, err := s.registry.Lookup(debateID)
	if err != nil {
		return errors.NotFoundError("debate not found").WithContext("debate_id", debateID)
	}

	record, questions := session.Snapshot()
	if err := s.repo.SaveDebate(ctx, record); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("debate").Inc()
		return errors.PersistenceError("failed to save debate", err).
			WithContext("debate_id", debateID)
	}

	for _, snap := range questions {
		if err := s.repo.SaveQuestion(ctx, snap.Question); err != nil {
			metrics.PersistenceFailuresTotal.WithLabelValues("question").Inc()
			return errors.PersistenceError("failed to save question", err).
				WithContext("debate_id", debateID).
				WithContext("question_id", snap.Question.ID)
		}
		for _, answer := range snap.Answers {
			if err := s.repo.SaveAnswer(ctx, answer); err != nil {
				metrics.PersistenceFailuresTotal.WithLabelValues("answer").Inc()
				return errors.PersistenceError("failed to save answer", err).
					WithContext("debate_id", debateID).
					WithContext("question_id", snap.Question.ID).
					WithContext("position", answer.Position)
			}
		}
	}

	logging.WithDebate(debateID).Info("debate persisted", "questions", len(questions))
	return nil
}

func questionKind(isOpen bool) string {
	if isOpen {
		return "open"
	}
	return "closed"
}
