// Package session implements the respondent-side survey answering state
// machine: an ordered question list, an answer map, a step pointer and a
// submission lifecycle. The package is pure, with no I/O and no logging, so the
// same machine backs both the hosted-session endpoints and server-side
// revalidation of direct submissions.
package session

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/sondea/sondea-backend/internal/model"
)

// State enumerates the session lifecycle. A session is born IN_PROGRESS
// (the loading phase is the constructor: New fails instead of producing an
// errored session). SUBMITTING blocks re-entry while the submission is in
// flight; THANKED is terminal.
type State string

const (
	StateInProgress State = "IN_PROGRESS"
	StateSubmitting State = "SUBMITTING"
	StateThanked    State = "THANKED"
)

// Domain errors surfaced to callers. The machine never touches answers or
// the step pointer when returning one of these.
var (
	ErrNoQuestions      = errors.New("survey has no questions")
	ErrAnswerRequired   = errors.New("current question is unanswered")
	ErrSessionClosed    = errors.New("session is closed")
	ErrSubmitInFlight   = errors.New("submission already in flight")
	ErrNotSubmitting    = errors.New("session is not submitting")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrUnknownItem      = errors.New("unknown classification item")
	ErrItemAnswerNeeded = errors.New("classification questions are answered per item")
	ErrScalarAnswer     = errors.New("question takes a single value, not item answers")
	ErrEmptyValue       = errors.New("answer value is empty")
)

// Answer is the session-local record for one question. Scalar types use
// Value/OptionID; CLASSIFICATION uses Items keyed by item id.
type Answer struct {
	Value    string            `json:"value,omitempty"`
	OptionID string            `json:"option_id,omitempty"`
	Items    map[string]string `json:"items,omitempty"`
}

// Session holds one respondent's in-flight answering state.
type Session struct {
	questions []model.Question
	answers   map[uuid.UUID]*Answer
	step      int
	state     State
}

// New hydrates a session from a survey's question list. Questions are
// ordered by order_index with ties broken by collection order (stable sort).
// An empty list is a hydration failure, not a session.
func New(questions []model.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	ordered := make([]model.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	return &Session{
		questions: ordered,
		answers:   make(map[uuid.UUID]*Answer, len(ordered)),
		step:      0,
		state:     StateInProgress,
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Step returns the zero-based index of the current question.
func (s *Session) Step() int { return s.step }

// Questions returns the ordered question list the session was hydrated
// with. The slice is a copy; callers cannot reorder the session through it.
func (s *Session) Questions() []model.Question {
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Current returns the question at the step pointer.
func (s *Session) Current() model.Question { return s.questions[s.step] }

// Answer records a scalar answer for a question, overwriting any previous
// value. CLASSIFICATION questions reject this path; use AnswerItem.
func (s *Session) Answer(questionID uuid.UUID, value, optionID string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}

	q := s.find(questionID)
	if q == nil {
		return ErrUnknownQuestion
	}
	if q.Type == model.QuestionTypeClassification {
		return ErrItemAnswerNeeded
	}
	if value == "" {
		return ErrEmptyValue
	}

	s.answers[questionID] = &Answer{Value: value, OptionID: optionID}
	return nil
}

// AnswerItem records a single classification item's value, leaving sibling
// items untouched.
func (s *Session) AnswerItem(questionID uuid.UUID, itemID, value string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}

	q := s.find(questionID)
	if q == nil {
		return ErrUnknownQuestion
	}
	if q.Type != model.QuestionTypeClassification {
		return ErrScalarAnswer
	}
	if value == "" {
		return ErrEmptyValue
	}

	items, err := q.ClassificationItems()
	if err != nil {
		return err
	}
	known := false
	for _, it := range items {
		if it.ID == itemID {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownItem
	}

	a := s.answers[questionID]
	if a == nil {
		a = &Answer{Items: make(map[string]string, len(items))}
		s.answers[questionID] = a
	}
	if a.Items == nil {
		a.Items = make(map[string]string, len(items))
	}
	a.Items[itemID] = value
	return nil
}

// Advance moves the step pointer forward if the current question is
// answered. On the last step it transitions to SUBMITTING instead and
// returns true; the caller then builds the submission and reports the
// outcome via CompleteSubmit or FailSubmit.
func (s *Session) Advance() (submitting bool, err error) {
	if err := s.checkMutable(); err != nil {
		return false, err
	}

	current := s.questions[s.step]
	if !s.answered(&current) {
		return false, ErrAnswerRequired
	}

	if s.step < len(s.questions)-1 {
		s.step++
		return false, nil
	}

	s.state = StateSubmitting
	return true, nil
}

// CompleteSubmit finalizes a successful submission. The session becomes
// THANKED and accepts no further input.
func (s *Session) CompleteSubmit() error {
	if s.state != StateSubmitting {
		return ErrNotSubmitting
	}
	s.state = StateThanked
	return nil
}

// FailSubmit reverts a failed submission to IN_PROGRESS on the last
// question. The answer map is untouched so the respondent can retry.
func (s *Session) FailSubmit() error {
	if s.state != StateSubmitting {
		return ErrNotSubmitting
	}
	s.state = StateInProgress
	return nil
}

// IsAnswered reports whether a question satisfies the answered-invariant:
// TEXT always does; CLASSIFICATION needs every declared item valued (NA only
// when na_option); scalar types need a non-empty value.
func (s *Session) IsAnswered(questionID uuid.UUID) (bool, error) {
	q := s.find(questionID)
	if q == nil {
		return false, ErrUnknownQuestion
	}
	return s.answered(q), nil
}

func (s *Session) checkMutable() error {
	switch s.state {
	case StateThanked:
		return ErrSessionClosed
	case StateSubmitting:
		return ErrSubmitInFlight
	}
	return nil
}

func (s *Session) find(questionID uuid.UUID) *model.Question {
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			return &s.questions[i]
		}
	}
	return nil
}

func (s *Session) answered(q *model.Question) bool {
	if q.Type == model.QuestionTypeText {
		return true
	}

	a := s.answers[q.ID]
	if a == nil {
		return false
	}

	if q.Type == model.QuestionTypeClassification {
		items, err := q.ClassificationItems()
		if err != nil || len(items) == 0 {
			return false
		}
		for _, it := range items {
			v, ok := a.Items[it.ID]
			if !ok || v == "" {
				return false
			}
			if v == model.NAValue && !q.NAOption {
				return false
			}
		}
		return true
	}

	// Scalar types. When na_option is off, "NA" is not special: it is an
	// ordinary string value and counts as present.
	return a.Value != ""
}
