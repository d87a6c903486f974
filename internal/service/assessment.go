package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/catalog"
	"github.com/freedomology/backend/internal/domain/program"
	"github.com/freedomology/backend/internal/domain/scoring"
	"github.com/freedomology/backend/internal/id"
	"github.com/freedomology/backend/internal/metrics"
	"github.com/freedomology/backend/internal/store"
	"github.com/freedomology/backend/internal/worker"
)

// ErrNotComplete is returned when results are requested before the final
// question has been answered.
var ErrNotComplete = errors.New("assessment not complete")

const recordTimeout = 10 * time.Second

// Options wires an AssessmentService. Results may be nil, in which case
// nothing is recorded for analytics.
type Options struct {
	Catalog         *catalog.Catalog
	Engine          *scoring.Engine
	Sessions        store.SessionStore
	Results         store.ResultStore
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
	RecorderWorkers int
}

// Outcome is a scored assessment plus the program recommended for its
// weakest pillar.
type Outcome struct {
	SessionID   string
	Result      scoring.Result
	Program     *program.Program
	CompletedAt time.Time
}

// AssessmentService runs many independent sessions. Operations on one
// session are serialized; sessions never share state. Result writes happen
// in the background on a worker pool so the respondent never waits on the
// database.
type AssessmentService struct {
	catalog  *catalog.Catalog
	engine   *scoring.Engine
	sessions store.SessionStore
	results  store.ResultStore
	metrics  *metrics.Metrics
	logger   *slog.Logger

	recorder *worker.Pool[error]
	drained  chan struct{}

	mu    sync.Mutex
	locks map[string]*sessionLock // sessionID → lock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewAssessmentService(opts Options) *AssessmentService {
	workers := opts.RecorderWorkers
	if workers < 1 {
		workers = 1
	}
	s := &AssessmentService{
		catalog:  opts.Catalog,
		engine:   opts.Engine,
		sessions: opts.Sessions,
		results:  opts.Results,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		recorder: worker.NewPool[error](workers, 64),
		drained:  make(chan struct{}),
		locks:    make(map[string]*sessionLock),
	}
	go s.drain()
	return s
}

func (s *AssessmentService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Start creates a session positioned on the first question.
func (s *AssessmentService) Start(ctx context.Context) (*assessment.Session, error) {
	sess, err := assessment.NewSession(id.GenerateID(), s.catalog)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess.Snapshot()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.metrics.SessionStarted()
	s.logger.Info("assessment started", "session_id", sess.ID(), "questions", sess.Total())

	startedAt := sess.StartedAt()
	sessionID := sess.ID()
	s.record(sessionID, func(ctx context.Context) error {
		return s.results.RecordStart(ctx, sessionID, startedAt)
	})
	return sess, nil
}

func (s *AssessmentService) Get(ctx context.Context, sessionID string) (*assessment.Session, error) {
	return s.load(ctx, sessionID)
}

// Answer records value for the current question. A rejected value returns
// the unchanged session together with the error.
func (s *AssessmentService) Answer(ctx context.Context, sessionID string, value int) (*assessment.Session, error) {
	var completed bool
	sess, err := s.mutate(ctx, sessionID, func(sess *assessment.Session) error {
		if err := sess.Answer(value); err != nil {
			return err
		}
		completed = sess.IsComplete()
		return nil
	})
	switch {
	case errors.Is(err, assessment.ErrInvalidAnswer):
		s.metrics.AnswerRejected()
		s.logger.Warn("answer rejected", "session_id", sessionID, "value", value)
		return sess, err
	case err != nil:
		return sess, err
	}

	s.metrics.AnswerAccepted()
	if completed {
		s.complete(sess)
	}
	return sess, nil
}

func (s *AssessmentService) Next(ctx context.Context, sessionID string) (*assessment.Session, error) {
	return s.mutate(ctx, sessionID, (*assessment.Session).Next)
}

func (s *AssessmentService) Previous(ctx context.Context, sessionID string) (*assessment.Session, error) {
	return s.mutate(ctx, sessionID, (*assessment.Session).Previous)
}

// Reset discards every answer and returns the session to its first question.
func (s *AssessmentService) Reset(ctx context.Context, sessionID string) (*assessment.Session, error) {
	sess, err := s.mutate(ctx, sessionID, func(sess *assessment.Session) error {
		sess.Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.SessionReset()
	s.logger.Info("assessment reset", "session_id", sessionID)
	return sess, nil
}

// Results scores a completed session. Once the live session has expired the
// recorded result is returned instead.
func (s *AssessmentService) Results(ctx context.Context, sessionID string) (*Outcome, error) {
	sess, err := s.load(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) && s.results != nil {
		rec, recErr := s.results.GetResult(ctx, sessionID)
		if recErr != nil {
			return nil, recErr
		}
		return newOutcome(rec.ID, rec.Result, rec.CompletedAt), nil
	}
	if err != nil {
		return nil, err
	}
	if !sess.IsComplete() {
		return nil, ErrNotComplete
	}

	res := s.engine.Compute(s.catalog, sess.Answers())
	return newOutcome(sess.ID(), res, sess.UpdatedAt()), nil
}

func (s *AssessmentService) Delete(ctx context.Context, sessionID string) error {
	lock := s.lock(sessionID)
	defer s.unlock(sessionID, lock)
	return s.sessions.Delete(ctx, sessionID)
}

// Score computes a result for an arbitrary answer store.
func (s *AssessmentService) Score(answers assessment.AnswerStore) scoring.Result {
	return s.engine.Compute(s.catalog, answers)
}

// Close waits for pending result writes to finish.
func (s *AssessmentService) Close() {
	s.recorder.Close()
	<-s.drained
}

func newOutcome(sessionID string, res scoring.Result, completedAt time.Time) *Outcome {
	out := &Outcome{SessionID: sessionID, Result: res, CompletedAt: completedAt}
	if p, ok := programFor(res); ok {
		out.Program = &p
	}
	return out
}

func programFor(res scoring.Result) (program.Program, bool) {
	if res.LowestPillar == "" {
		return program.Program{}, false
	}
	return program.ForPillar(res.LowestPillar)
}


func (s *AssessmentService) load(ctx context.Context, sessionID string) (*assessment.Session, error) {
	snap, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess, err := assessment.Restore(s.catalog, snap)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return sess, nil
}

// mutate loads a session under its lock, applies fn and saves the session if
// fn succeeded. When fn fails the unchanged session is returned with the error.
func (s *AssessmentService) mutate(ctx context.Context, sessionID string, fn func(*assessment.Session) error) (*assessment.Session, error) {
	lock := s.lock(sessionID)
	defer s.unlock(sessionID, lock)

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return sess, err
	}
	if err := s.sessions.Save(ctx, sess.Snapshot()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *AssessmentService) lock(sessionID string) *sessionLock {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

func (s *AssessmentService) unlock(sessionID string, l *sessionLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, sessionID)
	}
	s.mu.Unlock()
}

func (s *AssessmentService) complete(sess *assessment.Session) {
	res := s.engine.Compute(s.catalog, sess.Answers())
	s.metrics.SessionCompleted(res.Overall, res.Capped)
	s.logger.Info("assessment completed",
		"session_id", sess.ID(),
		"overall", res.Overall,
		"raw_overall", res.RawOverall,
		"capped", res.Capped,
		"lowest_pillar", res.LowestPillar,
	)

	rec := store.CompletedAssessment{
		ID:          sess.ID(),
		StartedAt:   sess.StartedAt(),
		CompletedAt: sess.UpdatedAt(),
		Answers:     sess.Answers(),
		Result:      res,
	}
	s.record(rec.ID, func(ctx context.Context) error {
		return s.results.RecordCompletion(ctx, rec)
	})
}

// record queues a result write. It uses context.Background because the write
// must outlive the HTTP request that triggered it.
func (s *AssessmentService) record(sessionID string, fn func(context.Context) error) {
	if s.results == nil {
		return
	}
	s.recorder.Submit(sessionID, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		return fn(ctx)
	})
}

func (s *AssessmentService) drain() {
	defer close(s.drained)
	for r := range s.recorder.Results() {
		if r.Output != nil {
			s.metrics.RecorderFailed()
			s.logger.Error("failed to record assessment", "session_id", r.JobID, "error", r.Output)
		}
	}
}
