// Package store records the history of enrichment runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/bto-enrich/internal/reconcile"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = eris.New("store: run not found")

// RunStatus represents the state of an enrichment run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunInputs records where a run read from and wrote to.
type RunInputs struct {
	Listing   string `json:"listing"`
	Features  string `json:"features"`
	Overrides string `json:"overrides,omitempty"`
	Output    string `json:"output"`
}

// Run is one recorded enrichment run.
type Run struct {
	ID         string             `json:"id"`
	Inputs     RunInputs          `json:"inputs"`
	Status     RunStatus          `json:"status"`
	Summary    *reconcile.Summary `json:"summary,omitempty"`
	Error      string             `json:"error,omitempty"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status RunStatus `json:"status,omitempty"`
	Limit  int       `json:"limit,omitempty"`
	Offset int       `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, inputs RunInputs) (*Run, error)
	CompleteRun(ctx context.Context, runID string, summary reconcile.Summary) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

const runColumns = `id, inputs, status, summary, error, started_at, finished_at`

type scannable interface {
	Scan(dest ...any) error
}

// scanRun decodes one runs row. Both drivers scan into database/sql null
// types; the Postgres queries cast JSONB columns to text.
func scanRun(row scannable) (*Run, error) {
	var r Run
	var inputsJSON string
	var status string
	var summaryJSON, errText sql.NullString
	var finishedAt sql.NullTime

	err := row.Scan(&r.ID, &inputsJSON, &status, &summaryJSON, &errText, &r.StartedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan run")
	}

	r.Status = RunStatus(status)
	if err := json.Unmarshal([]byte(inputsJSON), &r.Inputs); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal inputs")
	}
	if summaryJSON.Valid && summaryJSON.String != "" {
		r.Summary = &reconcile.Summary{}
		if err := json.Unmarshal([]byte(summaryJSON.String), r.Summary); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal summary")
		}
	}
	if errText.Valid {
		r.Error = errText.String
	}
	if finishedAt.Valid {
		t := finishedAt.Time.UTC()
		r.FinishedAt = &t
	}
	r.StartedAt = r.StartedAt.UTC()
	return &r, nil
}

func listLimit(filter RunFilter) int {
	if filter.Limit <= 0 {
		return defaultListLimit
	}
	return filter.Limit
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
