package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroclim/drought-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresCreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), "train", pgxmock.AnyArg(), "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), "train", model.RunParams{Trees: 50})
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET metrics`).
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	params, err := json.Marshal(model.RunParams{Trees: 100, Seed: 42})
	require.NoError(t, err)
	metrics, err := json.Marshal([]model.MetricRecord{{Accuracy: 0.88}})
	require.NoError(t, err)

	now := time.Now().UTC()
	paramsStr := string(params)
	metricsStr := string(metrics)

	mock.ExpectQuery(`SELECT id, command, params, status, metrics, error, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "command", "params", "status", "metrics", "error", "created_at", "updated_at",
		}).AddRow("run-1", "train", paramsStr, "complete", &metricsStr, (*string)(nil), now, now))

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, 100, run.Params.Trees)
	require.Len(t, run.Metrics, 1)
	assert.InDelta(t, 0.88, run.Metrics[0].Accuracy, 1e-12)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, command, params, status, metrics, error, created_at, updated_at FROM runs`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	params, err := json.Marshal(model.RunParams{})
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, command, params, status, metrics, error, created_at, updated_at FROM runs WHERE 1=1 AND command = \$1`).
		WithArgs("stability").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "command", "params", "status", "metrics", "error", "created_at", "updated_at",
		}).AddRow("run-2", "stability", string(params), "running", (*string)(nil), (*string)(nil), now, now))

	runs, err := s.ListRuns(context.Background(), RunFilter{Command: "stability"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS runs`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
