package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/freedomology/backend/internal/domain/assessment"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    completed_at TEXT,
    overall INTEGER,
    raw_overall INTEGER,
    capped INTEGER NOT NULL DEFAULT 0,
    lowest_pillar TEXT,
    result TEXT
);

CREATE TABLE IF NOT EXISTS responses (
    assessment_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    value INTEGER NOT NULL,
    PRIMARY KEY (assessment_id, question_id),
    FOREIGN KEY (assessment_id) REFERENCES assessments(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS pillar_scores (
    assessment_id TEXT NOT NULL,
    pillar_id TEXT NOT NULL,
    score INTEGER NOT NULL,
    PRIMARY KEY (assessment_id, pillar_id),
    FOREIGN KEY (assessment_id) REFERENCES assessments(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_responses_question ON responses(question_id);
`

const timeLayout = time.RFC3339Nano

type SQLiteStore struct {
	db *sql.DB
}

var _ ResultStore = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One writer avoids SQLITE_BUSY between the recorder workers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Assessments
// ============================================================================

func (s *SQLiteStore) RecordStart(ctx context.Context, id string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO assessments (id, started_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING",
		id, startedAt.UTC().Format(timeLayout),
	)
	return err
}

// RecordCompletion stores the final answers and scores. Completing the same
// assessment again after a reset replaces the earlier record.
func (s *SQLiteStore) RecordCompletion(ctx context.Context, rec CompletedAssessment) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assessments (id, started_at, completed_at, overall, raw_overall, capped, lowest_pillar, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			completed_at = excluded.completed_at,
			overall = excluded.overall,
			raw_overall = excluded.raw_overall,
			capped = excluded.capped,
			lowest_pillar = excluded.lowest_pillar,
			result = excluded.result
	`,
		rec.ID,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.CompletedAt.UTC().Format(timeLayout),
		rec.Result.Overall,
		rec.Result.RawOverall,
		rec.Result.Capped,
		rec.Result.LowestPillar,
		string(resultJSON),
	)
	if err != nil {
		return fmt.Errorf("upsert assessment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM responses WHERE assessment_id = ?", rec.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pillar_scores WHERE assessment_id = ?", rec.ID); err != nil {
		return err
	}

	for questionID, value := range rec.Answers {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO responses (assessment_id, question_id, value) VALUES (?, ?, ?)",
			rec.ID, questionID, value,
		)
		if err != nil {
			return fmt.Errorf("insert response %s: %w", questionID, err)
		}
	}

	for _, p := range rec.Result.Pillars {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO pillar_scores (assessment_id, pillar_id, score) VALUES (?, ?, ?)",
			rec.ID, p.PillarID, p.Score,
		)
		if err != nil {
			return fmt.Errorf("insert pillar score %s: %w", p.PillarID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*CompletedAssessment, error) {
	var (
		rec         CompletedAssessment
		startedAt   string
		completedAt sql.NullString
		resultJSON  sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, started_at, completed_at, result FROM assessments WHERE id = ?", id,
	).Scan(&rec.ID, &startedAt, &completedAt, &resultJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !completedAt.Valid || !resultJSON.Valid {
		return nil, ErrNotFound
	}

	if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if rec.CompletedAt, err = time.Parse(timeLayout, completedAt.String); err != nil {
		return nil, fmt.Errorf("parse completed_at: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON.String), &rec.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT question_id, value FROM responses WHERE assessment_id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rec.Answers = make(assessment.AnswerStore)
	for rows.Next() {
		var qid string
		var v int
		if err := rows.Scan(&qid, &v); err != nil {
			return nil, err
		}
		rec.Answers[qid] = v
	}
	return &rec, rows.Err()
}

// ============================================================================
// Analytics
// ============================================================================

func (s *SQLiteStore) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(completed_at) FROM assessments",
	).Scan(&sum.Started, &sum.Completed)
	if err != nil {
		return nil, err
	}

	if sum.PillarAverages, err = s.pillarAverages(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT question_id, COUNT(*) FROM responses GROUP BY question_id ORDER BY question_id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var qc QuestionCount
		if err := rows.Scan(&qc.QuestionID, &qc.Responses); err != nil {
			return nil, err
		}
		sum.Questions = append(sum.Questions, qc)
	}
	return &sum, rows.Err()
}

func (s *SQLiteStore) QuestionDistribution(ctx context.Context, questionID string) ([]ValueCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT value, COUNT(*) FROM responses WHERE question_id = ? GROUP BY value ORDER BY value",
		questionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []ValueCount
	for rows.Next() {
		var vc ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, vc)
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) pillarAverages(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT pillar_id, AVG(score) FROM pillar_scores GROUP BY pillar_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	avgs := make(map[string]float64)
	for rows.Next() {
		var id string
		var avg float64
		if err := rows.Scan(&id, &avg); err != nil {
			return nil, err
		}
		avgs[id] = avg
	}
	return avgs, rows.Err()
}
