package assessment

import (
	"fmt"
	"time"

	"github.com/freedomology/backend/internal/domain/catalog"
)

// Snapshot is the serializable form of a Session, used by session stores.
type Snapshot struct {
	ID        string      `json:"id"`
	Index     int         `json:"index"`
	Complete  bool        `json:"complete"`
	Answers   AnswerStore `json:"answers"`
	StartedAt time.Time   `json:"started_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.id,
		Index:     s.index,
		Complete:  s.complete,
		Answers:   s.answers.Clone(),
		StartedAt: s.startedAt,
		UpdatedAt: s.updatedAt,
	}
}

// Restore rebuilds a Session against c, checking that the snapshot still fits
// the catalog: the index is in range and every answer is a valid option.
func Restore(c *catalog.Catalog, snap Snapshot) (*Session, error) {
	s, err := NewSession(snap.ID, c)
	if err != nil {
		return nil, err
	}
	if snap.Index < 0 || snap.Index >= c.Len() {
		return nil, fmt.Errorf("restore session %s: index %d outside 0..%d", snap.ID, snap.Index, c.Len()-1)
	}
	if snap.Complete && snap.Index != c.Len()-1 {
		return nil, fmt.Errorf("restore session %s: complete session must rest on the last question", snap.ID)
	}
	for qid, v := range snap.Answers {
		q, ok := c.Question(qid)
		if !ok {
			return nil, fmt.Errorf("restore session %s: unknown question %q", snap.ID, qid)
		}
		if !q.HasOption(v) {
			return nil, fmt.Errorf("restore session %s: %w: %d for question %q", snap.ID, ErrInvalidAnswer, v, qid)
		}
		s.answers[qid] = v
	}

	s.index = snap.Index
	s.complete = snap.Complete
	if !snap.StartedAt.IsZero() {
		s.startedAt = snap.StartedAt
	}
	if !snap.UpdatedAt.IsZero() {
		s.updatedAt = snap.UpdatedAt
	}
	return s, nil
}
