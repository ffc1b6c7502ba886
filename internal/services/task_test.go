package services

import (
	"context"
	"testing"
	"time"

	"github.com/bojanv/teamo-api/internal/config"
	"github.com/bojanv/teamo-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTaskService(t *testing.T) (*TaskService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewTaskService(&database.DB{Pool: mock, Tables: config.DefaultTables()}), mock
}

func taskRows(id, teamID uuid.UUID, name string, done bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "team_id", "name", "done", "created_at", "updated_at"}).
		AddRow(id, teamID, name, done, now, now)
}

func TestTaskService_Create(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	taskID := uuid.New()

	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(teamID, "Ship it").
		WillReturnRows(taskRows(taskID, teamID, "Ship it", false))

	task, err := svc.Create(context.Background(), teamID, "Ship it")

	require.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, teamID, task.TeamID)
	assert.False(t, task.Done)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Get_WrongTeam(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	taskID := uuid.New()

	mock.ExpectQuery(`FROM tasks WHERE id`).
		WithArgs(taskID, teamID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Get(context.Background(), teamID, taskID)

	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Update(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	taskID := uuid.New()

	mock.ExpectQuery(`UPDATE tasks SET name`).
		WithArgs("Done deal", true, taskID, teamID).
		WillReturnRows(taskRows(taskID, teamID, "Done deal", true))

	task, err := svc.Update(context.Background(), teamID, taskID, "Done deal", true)

	require.NoError(t, err)
	assert.True(t, task.Done)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Delete_NotFound(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	taskID := uuid.New()

	mock.ExpectExec(`DELETE FROM tasks`).
		WithArgs(taskID, teamID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(context.Background(), teamID, taskID)

	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_ListForTeam(t *testing.T) {
	svc, mock := setupTaskService(t)
	teamID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM tasks WHERE team_id`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "team_id", "name", "done", "created_at", "updated_at"}).
			AddRow(uuid.New(), teamID, "First", false, now, now).
			AddRow(uuid.New(), teamID, "Second", true, now, now))

	tasks, err := svc.ListForTeam(context.Background(), teamID)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "First", tasks[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
