package store

import (
	"context"
	"errors"
	"time"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/scoring"
)

var (
	ErrNotFound = errors.New("not found")
)

// SessionStore keeps in-flight sessions keyed by session id. Implementations
// must never hand two callers the same answer map.
type SessionStore interface {
	Save(ctx context.Context, snap assessment.Snapshot) error
	Get(ctx context.Context, id string) (assessment.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// ResultStore records assessment starts and completed results for analytics.
type ResultStore interface {
	RecordStart(ctx context.Context, id string, startedAt time.Time) error
	RecordCompletion(ctx context.Context, rec CompletedAssessment) error
	GetResult(ctx context.Context, id string) (*CompletedAssessment, error)
	Summary(ctx context.Context) (*Summary, error)
	QuestionDistribution(ctx context.Context, questionID string) ([]ValueCount, error)
	Close() error
}

type CompletedAssessment struct {
	ID          string
	StartedAt   time.Time
	CompletedAt time.Time
	Answers     assessment.AnswerStore
	Result      scoring.Result
}

type Summary struct {
	Started        int
	Completed      int
	Questions      []QuestionCount
	PillarAverages map[string]float64 // mean completed score per pillar id
}

type QuestionCount struct {
	QuestionID string
	Responses  int
}

type ValueCount struct {
	Value int
	Count int
}
