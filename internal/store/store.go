// Package store persists pipeline runs and their per-polygon aggregates,
// either in a local SQLite file or a shared Postgres.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/billingtt/ppol670-spatial/internal/export"
	"github.com/billingtt/ppol670-spatial/internal/model"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = eris.New("store: run not found")

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunParams records the inputs a run was started with.
type RunParams struct {
	PointsPath     string `json:"points_path"`
	BoundariesPath string `json:"boundaries_path"`
	RasterPath     string `json:"raster_path,omitempty"`
	JoinCRS        string `json:"join_crs"`
}

// RunSummary is written when a run completes.
type RunSummary struct {
	Points    int        `json:"points"`
	Polygons  int        `json:"polygons"`
	Unmatched int        `json:"unmatched"`
	Rows      int        `json:"rows"`
	Fit       *model.Fit `json:"fit,omitempty"`
}

// Run is one execution of the pipeline.
type Run struct {
	ID        string      `json:"id"`
	Params    RunParams   `json:"params"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status RunStatus `json:"status,omitempty"`
	Limit  int       `json:"limit,omitempty"`
	Offset int       `json:"offset,omitempty"`
}

// Store defines the persistence interface for pipeline results.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, params RunParams) (*Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status RunStatus) error
	CompleteRun(ctx context.Context, runID string, summary *RunSummary) error
	FailRun(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	// Aggregate rows
	SaveRows(ctx context.Context, runID string, rows []export.Row) error
	GetRows(ctx context.Context, runID string) ([]export.Row, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
