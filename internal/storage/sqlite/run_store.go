package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/l1itmu/dttfconv/internal/timeutil"
)

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// ConversionRun records one invocation of the converter over an input.
type ConversionRun struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	SourcePath string          `json:"source_path"`
	ConfigJSON json.RawMessage `json:"config_json"`
	Events     int             `json:"events"`
	Tracks     int             `json:"tracks"`
	Status     string          `json:"status"`
}

// RunStore persists conversion runs.
type RunStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewRunStore creates a RunStore using the wall clock.
func NewRunStore(db *sql.DB) *RunStore {
	return NewRunStoreWithClock(db, timeutil.RealClock{})
}

// NewRunStoreWithClock creates a RunStore that stamps runs with clock.
func NewRunStoreWithClock(db *sql.DB, clock timeutil.Clock) *RunStore {
	return &RunStore{db: db, clock: clock}
}

// InsertRun creates run. Empty RunID gets a new UUID, zero StartedAt gets
// the current time.
func (s *RunStore) InsertRun(run *ConversionRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = s.clock.Now()
	}
	if run.Status == "" {
		run.Status = RunRunning
	}
	if len(run.ConfigJSON) == 0 {
		run.ConfigJSON = json.RawMessage("{}")
	}

	_, err := s.db.Exec(`
		INSERT INTO conversion_runs (run_id, started_at, source_path, config_json, status)
		VALUES (?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt.UnixNano(), run.SourcePath, string(run.ConfigJSON), run.Status,
	)
	if err != nil {
		return fmt.Errorf("insert conversion run: %w", err)
	}
	return nil
}

// FinishRun records the final counters and status of a run.
func (s *RunStore) FinishRun(runID, status string, events, tracks int) error {
	res, err := s.db.Exec(`
		UPDATE conversion_runs
		SET finished_at = ?, status = ?, events = ?, tracks = ?
		WHERE run_id = ?`,
		s.clock.Now().UnixNano(), status, events, tracks, runID,
	)
	if err != nil {
		return fmt.Errorf("finish conversion run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish conversion run: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetRun loads one run.
func (s *RunStore) GetRun(runID string) (*ConversionRun, error) {
	var (
		r          ConversionRun
		started    int64
		finished   sql.NullInt64
		configJSON string
	)
	err := s.db.QueryRow(`
		SELECT run_id, started_at, finished_at, source_path, config_json, events, tracks, status
		FROM conversion_runs WHERE run_id = ?`, runID,
	).Scan(&r.RunID, &started, &finished, &r.SourcePath, &configJSON, &r.Events, &r.Tracks, &r.Status)
	if err != nil {
		return nil, fmt.Errorf("get conversion run: %w", err)
	}
	r.StartedAt = time.Unix(0, started)
	if finished.Valid {
		t := time.Unix(0, finished.Int64)
		r.FinishedAt = &t
	}
	r.ConfigJSON = json.RawMessage(configJSON)
	return &r, nil
}

// DeleteRun removes a run with all its tracks and stubs.
func (s *RunStore) DeleteRun(runID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete conversion run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM converted_track_stubs
		WHERE track_id IN (SELECT track_id FROM converted_tracks WHERE run_id = ?)`, runID); err != nil {
		return fmt.Errorf("delete run stubs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM converted_tracks WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete run tracks: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM conversion_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete conversion run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
