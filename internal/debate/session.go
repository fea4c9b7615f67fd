package debate

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/1996Rosy/server-app/internal/domain"
)

// ErrEmptyTitle is returned when a question is created without a title.
var ErrEmptyTitle = errors.New("question title must not be empty")

// Broadcaster delivers an event to every member of a logical channel.
// Delivery is fire-and-forget: no acknowledgement, FIFO within one channel,
// no ordering guarantee across channels.
type Broadcaster interface {
	Broadcast(channel, event string, payload any)
}

// Session is one live debate. It owns its question map, its question id
// sequence and the identity of its two logical channels. Mutating
// operations serialize on the session mutex so concurrent answers against
// the same question never lose updates.
type Session struct {
	id            int64
	title         string
	description   string
	administrator string

	events Broadcaster
	seq    *Sequence

	mu        sync.Mutex
	questions map[int64]*Question
	order     []int64
}

// NewSession creates an empty debate session. The session does not manage
// channel membership; the router binds connections to AudienceChannel(id)
// and AdminChannel(id).
func NewSession(id int64, title, description, administrator string, events Broadcaster) *Session {
	return &Session{
		id:            id,
		title:         title,
		description:   description,
		administrator: administrator,
		events:        events,
		seq:           NewSequence(0),
		questions:     make(map[int64]*Question),
	}
}

func (s *Session) ID() int64 { return s.id }

func (s *Session) Title() string { return s.title }

func (s *Session) Description() string { return s.description }

func (s *Session) Administrator() string { return s.administrator }

// CreateQuestion allocates the next question id and builds the answer list.
// Closed questions are pre-populated with the fixed options; open questions
// start empty regardless of options. The question is not visible to
// participants until Publish.
func (s *Session) CreateQuestion(title string, options []string, isOpen bool) (*Question, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}

	q := &Question{
		id:     s.seq.Next(),
		title:  title,
		isOpen: isOpen,
	}
	if !isOpen {
		q.answers = make([]Answer, 0, len(options))
		for _, opt := range options {
			q.answers = append(q.answers, Answer{Text: opt})
		}
	}
	return q, nil
}

// Publish stores the question and broadcasts its public view to the
// audience channel. Publishing is irreversible; the question stays
// retrievable for the session's lifetime.
func (s *Session) Publish(q *Question) {
	s.mu.Lock()
	if _, exists := s.questions[q.id]; !exists {
		s.questions[q.id] = q
		s.order = append(s.order, q.id)
	}
	s.mu.Unlock()

	slog.Debug("publishing question", "debate_id", s.id, "question_id", q.id)
	s.events.Broadcast(AudienceChannel(s.id), EventNewQuestion, q.Format())
}

// ListQuestions returns the public views of all published questions in
// publish order. An empty session returns an empty slice.
func (s *Session) ListQuestions() []FormattedQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]FormattedQuestion, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.questions[id].Format())
	}
	return out
}

// QuestionCount returns the number of published questions.
func (s *Session) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// RecordClosedAnswer validates a positional answer against a closed
// question. On success it emits an answerRecorded event to the admin
// channel only and reports true; the question itself is never mutated, so
// the option list stays frozen. Any validation failure reports false and
// emits nothing.
func (s *Session) RecordClosedAnswer(questionID, answerID int64) bool {
	s.mu.Lock()
	q, ok := s.questions[questionID]
	s.mu.Unlock()

	if !ok {
		slog.Debug("closed answer for unknown question", "debate_id", s.id, "question_id", questionID)
		return false
	}
	if q.isOpen {
		slog.Debug("closed answer for open question", "debate_id", s.id, "question_id", questionID)
		return false
	}
	if answerID < 0 || answerID >= int64(len(q.answers)) {
		slog.Debug("answer id out of bounds", "debate_id", s.id, "question_id", questionID, "answer_id", answerID)
		return false
	}

	slog.Info("closed answer recorded", "debate_id", s.id, "question_id", questionID, "answer_id", answerID)
	s.events.Broadcast(AdminChannel(s.id), EventAnswerRecorded, AnswerRecorded{QuestionID: questionID, AnswerID: answerID})
	return true
}

// RecordOpenAnswer appends a free-text answer to an open question, tagged
// with the submitting connection's opaque id, and reports the position it
// was stored at. Open answers are collected silently: no event is broadcast
// to either channel. Answering a closed question this way is rejected, not
// coerced.
func (s *Session) RecordOpenAnswer(questionID int64, text, submitterID string) (int, bool) {
	if text == "" {
		slog.Debug("open answer with empty text", "debate_id", s.id, "question_id", questionID)
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[questionID]
	if !ok {
		slog.Debug("open answer for unknown question", "debate_id", s.id, "question_id", questionID)
		return 0, false
	}
	if !q.isOpen {
		slog.Debug("open answer for closed question", "debate_id", s.id, "question_id", questionID)
		return 0, false
	}

	position := len(q.answers)
	q.answers = append(q.answers, Answer{Text: text, SubmitterID: submitterID})
	slog.Info("open answer recorded", "debate_id", s.id, "question_id", questionID, "submitter_id", submitterID)
	return position, true
}

// QuestionSnapshot pairs a question's durable record with its answer
// records, positions matching the in-memory answer list.
type QuestionSnapshot struct {
	Question domain.QuestionRecord
	Answers  []domain.AnswerRecord
}

// Snapshot captures the session and its questions as persistence records,
// in publish order. The copy is taken under the session mutex so it is
// internally consistent at the time of the call.
func (s *Session) Snapshot() (domain.DebateRecord, []QuestionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := domain.DebateRecord{
		ID:            s.id,
		Title:         s.title,
		Description:   s.description,
		Administrator: s.administrator,
	}

	questions := make([]QuestionSnapshot, 0, len(s.order))
	for _, id := range s.order {
		q := s.questions[id]
		snap := QuestionSnapshot{
			Question: domain.QuestionRecord{
				ID:       q.id,
				DebateID: s.id,
				Title:    q.title,
				IsOpen:   q.isOpen,
			},
		}
		for i, a := range q.answers {
			snap.Answers = append(snap.Answers, domain.AnswerRecord{
				DebateID:    s.id,
				QuestionID:  q.id,
				Position:    i,
				Text:        a.Text,
				SubmitterID: a.SubmitterID,
			})
		}
		questions = append(questions, snap)
	}
	return record, questions
}
