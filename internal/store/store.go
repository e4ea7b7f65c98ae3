// Package store persists run history for later inspection. Two drivers
// exist: a local sqlite file and a shared postgres database.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/hydroclim/drought-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Command      string          `json:"command,omitempty"`
	Status       model.RunStatus `json:"status,omitempty"`
	CreatedAfter time.Time       `json:"created_after,omitempty"`
	Limit        int             `json:"limit,omitempty"`
}

// Store defines the run-history persistence interface.
type Store interface {
	CreateRun(ctx context.Context, command string, params model.RunParams) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, metrics []model.MetricRecord) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the configured driver.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(databaseURL)
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
