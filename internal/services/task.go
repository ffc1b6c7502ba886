package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bojanv/teamo-api/internal/database"
	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TaskService stores team-scoped records. Every operation takes the owning
// team id explicitly; callers resolve it from the request scope.
type TaskService struct {
	db *database.DB
}

func NewTaskService(db *database.DB) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) Create(ctx context.Context, teamID uuid.UUID, name string) (*models.Task, error) {
	var task models.Task
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (team_id, name)
		VALUES ($1, $2)
		RETURNING id, team_id, name, done, created_at, updated_at
	`, teamID, name).Scan(&task.ID, &task.TeamID, &task.Name, &task.Done, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

func (s *TaskService) ListForTeam(ctx context.Context, teamID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, team_id, name, done, created_at, updated_at
		FROM tasks WHERE team_id = $1
		ORDER BY created_at
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.TeamID, &task.Name, &task.Done, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *TaskService) Get(ctx context.Context, teamID, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, team_id, name, done, created_at, updated_at
		FROM tasks WHERE id = $1 AND team_id = $2
	`, taskID, teamID).Scan(&task.ID, &task.TeamID, &task.Name, &task.Done, &task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Update(ctx context.Context, teamID, taskID uuid.UUID, name string, done bool) (*models.Task, error) {
	var task models.Task
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE tasks SET name = $1, done = $2, updated_at = NOW()
		WHERE id = $3 AND team_id = $4
		RETURNING id, team_id, name, done, created_at, updated_at
	`, name, done, taskID, teamID).Scan(&task.ID, &task.TeamID, &task.Name, &task.Done, &task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Delete(ctx context.Context, teamID, taskID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND team_id = $2
	`, taskID, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
