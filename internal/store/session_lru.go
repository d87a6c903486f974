package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/freedomology/backend/internal/domain/assessment"
)

// LRUSessionStore keeps sessions in process memory, evicting the least
// recently used entry once capacity is reached and any entry older than ttl.
type LRUSessionStore struct {
	cache *expirable.LRU[string, assessment.Snapshot]
}

var _ SessionStore = (*LRUSessionStore)(nil)

func NewLRUSessionStore(capacity int, ttl time.Duration) *LRUSessionStore {
	return &LRUSessionStore{
		cache: expirable.NewLRU[string, assessment.Snapshot](capacity, nil, ttl),
	}
}

func (s *LRUSessionStore) Save(_ context.Context, snap assessment.Snapshot) error {
	snap.Answers = snap.Answers.Clone()
	s.cache.Add(snap.ID, snap)
	return nil
}

func (s *LRUSessionStore) Get(_ context.Context, id string) (assessment.Snapshot, error) {
	snap, ok := s.cache.Get(id)
	if !ok {
		return assessment.Snapshot{}, ErrNotFound
	}
	snap.Answers = snap.Answers.Clone()
	return snap, nil
}

func (s *LRUSessionStore) Delete(_ context.Context, id string) error {
	if !s.cache.Remove(id) {
		return ErrNotFound
	}
	return nil
}

// Len reports the number of live sessions.
func (s *LRUSessionStore) Len() int {
	return s.cache.Len()
}
