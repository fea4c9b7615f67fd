package debate

import "fmt"

// Event names published to the logical channels.
const (
	EventNewQuestion    = "newQuestion"
	EventAnswerRecorded = "answerRecorded"
)

// AudienceChannel names the broadcast channel carrying events for every
// participant of a debate.
func AudienceChannel(debateID int64) string {
	return fmt.Sprintf("audience:%d", debateID)
}

// AdminChannel names the broadcast channel reserved for the debate's
// administrators.
func AdminChannel(debateID int64) string {
	return fmt.Sprintf("admin:%d", debateID)
}

// Answer is one entry in a question's ordered answer list. For closed
// questions it is a fixed option and SubmitterID is empty; for open
// questions it is a submitted free text tagged with the submitting
// connection's opaque id.
type Answer struct {
	Text        string
	SubmitterID string
}

// Question is a published prompt. Closed questions carry their full option
// list from creation on and are never mutated afterwards; answer ids are the
// options' positions and stay stable for the question's lifetime. Open
// questions start with an empty list that grows as participants respond.
type Question struct {
	id      int64
	title   string
	isOpen  bool
	answers []Answer
}

func (q *Question) ID() int64 { return q.id }

func (q *Question) Title() string { return q.title }

func (q *Question) IsOpen() bool { return q.isOpen }

// FormattedQuestion is the public view of a question sent over the wire.
// Only the flattened option texts are exposed: submitted open answers and
// their submitter ids never reach the audience, so an open question's
// answer list is always empty here.
type FormattedQuestion struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Answers        []string `json:"answers"`
	IsOpenQuestion bool     `json:"isOpenQuestion"`
}

// AnswerRecorded is the event payload sent to the admin channel when a
// participant answers a closed question.
type AnswerRecorded struct {
	QuestionID int64 `json:"questionId"`
	AnswerID   int64 `json:"answerId"`
}

// Format returns the public view of the question.
func (q *Question) Format() FormattedQuestion {
	answers := []string{}
	if !q.isOpen {
		for _, a := range q.answers {
			answers = append(answers, a.Text)
		}
	}
	return FormattedQuestion{
		ID:             q.id,
		Title:          q.title,
		Answers:        answers,
		IsOpenQuestion: q.isOpen,
	}
}
