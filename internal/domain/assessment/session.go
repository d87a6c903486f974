package assessment

import (
	"errors"
	"fmt"
	"time"

	"github.com/freedomology/backend/internal/domain/catalog"
)

var (
	// ErrInvalidAnswer means the value is not one of the current question's options.
	ErrInvalidAnswer = errors.New("answer value is not a valid option")
	// ErrOutOfRange means a move before the first or past the last question.
	ErrOutOfRange = errors.New("navigation out of range")
	// ErrUnanswered means next was requested before the current question was answered.
	ErrUnanswered = errors.New("current question has not been answered")
	// ErrComplete means the session is finished; only Reset leaves this state.
	ErrComplete = errors.New("assessment already complete")
)

type State string

const (
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

// Session is one respondent's walk through a catalog: the navigation cursor
// over the flattened question sequence plus the answers collected so far.
// A Session is not safe for concurrent use; callers serialize access.
type Session struct {
	id        string
	catalog   *catalog.Catalog
	answers   AnswerStore
	index     int
	complete  bool
	startedAt time.Time
	updatedAt time.Time
	now       func() time.Time
}

// NewSession starts a session at the first question of c.
func NewSession(id string, c *catalog.Catalog) (*Session, error) {
	if c == nil || c.Len() == 0 {
		return nil, catalog.ErrEmptyCatalog
	}
	s := &Session{
		id:      id,
		catalog: c,
		answers: make(AnswerStore),
		now:     time.Now,
	}
	s.startedAt = s.now().UTC()
	s.updatedAt = s.startedAt
	return s, nil
}

func (s *Session) ID() string { return s.id }
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }
func (s *Session) Index() int { return s.index }
func (s *Session) Total() int { return s.catalog.Len() }
func (s *Session) IsComplete() bool { return s.complete }
func (s *Session) IsFirst() bool { return s.index == 0 }
func (s *Session) IsLast() bool { return s.index == s.Total()-1 }
func (s *Session) StartedAt() time.Time { return s.startedAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

func (s *Session) State() State {
	if s.complete {
		return StateComplete
	}
	return StateInProgress
}

// Current returns the question under the cursor.
func (s *Session) Current() catalog.Question {
	q, _ := s.catalog.At(s.index)
	return q
}

// CurrentValue returns the recorded answer for the current question.
func (s *Session) CurrentValue() (int, bool) {
	return s.answers.Get(s.Current().ID)
}

// Answers returns a copy of the answer store.
func (s *Session) Answers() AnswerStore {
	return s.answers.Clone()
}

// Answer records value for the current question and advances. Answering the
// last question completes the session. An invalid value changes nothing.
func (s *Session) Answer(value int) error {
	if s.complete {
		return ErrComplete
	}
	q := s.Current()
	if !q.HasOption(value) {
		return fmt.Errorf("%w: %d for question %q", ErrInvalidAnswer, value, q.ID)
	}

	s.answers[q.ID] = value
	if s.IsLast() {
		s.complete = true
	} else {
		s.index++
	}
	s.touch()
	return nil
}

// Next moves forward one question. It requires the current question to be
// answered and never completes the session.
func (s *Session) Next() error {
	if s.complete {
		return ErrComplete
	}
	if !s.answers.Has(s.Current().ID) {
		return ErrUnanswered
	}
	if s.IsLast() {
		return ErrOutOfRange
	}
	s.index++
	s.touch()
	return nil
}

// Previous moves back one question.
func (s *Session) Previous() error {
	if s.complete {
		return ErrComplete
	}
	if s.index == 0 {
		return ErrOutOfRange
	}
	s.index--
	s.touch()
	return nil
}

// Progress is the position of the displayed question as a percentage of the
// total, so the first question of four reports 25.
func (s *Session) Progress() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.index+1) / float64(total) * 100
}

// Reset discards every answer and returns the cursor to the first question.
func (s *Session) Reset() {
	s.answers = make(AnswerStore)
	s.index = 0
	s.complete = false
	s.touch()
}

func (s *Session) touch() {
	s.updatedAt = s.now().UTC()
}
