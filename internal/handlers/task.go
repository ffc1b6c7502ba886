package handlers

import (
	"context"
	"errors"

	"github.com/bojanv/teamo-api/internal/middleware"
	"github.com/bojanv/teamo-api/internal/scope"
	"github.com/bojanv/teamo-api/internal/services"
	"github.com/bojanv/teamo-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// TaskHandler serves team-scoped records. All operations resolve the team
// from the request scope; a user without a current team gets a 400.
type TaskHandler struct {
	taskService TaskServiceInterface
}

func NewTaskHandler(taskService TaskServiceInterface) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// scopedContext builds a context carrying the acting user's current team.
func scopedContext(c *drift.Context) (context.Context, uuid.UUID, error) {
	user := middleware.GetUser(c)
	if user == nil || user.CurrentTeamID == nil {
		return nil, uuid.Nil, scope.ErrNoTeamContext
	}
	ctx := scope.WithTeam(context.Background(), *user.CurrentTeamID)
	teamID, err := scope.TeamID(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return ctx, teamID, nil
}

func (h *TaskHandler) Create(c *drift.Context) {
	ctx, teamID, err := scopedContext(c)
	if err != nil {
		c.BadRequest("no current team selected")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil || req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	task, err := h.taskService.Create(ctx, teamID, req.Name)
	if err != nil {
		c.InternalServerError("failed to create task")
		return
	}

	_ = c.JSON(201, dto.TaskResponse{ID: task.ID, TeamID: task.TeamID, Name: task.Name, Done: task.Done})
}

func (h *TaskHandler) List(c *drift.Context) {
	ctx, teamID, err := scopedContext(c)
	if err != nil {
		c.BadRequest("no current team selected")
		return
	}

	tasks, err := h.taskService.ListForTeam(ctx, teamID)
	if err != nil {
		c.InternalServerError("failed to list tasks")
		return
	}

	response := make([]dto.TaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = dto.TaskResponse{ID: task.ID, TeamID: task.TeamID, Name: task.Name, Done: task.Done}
	}

	_ = c.JSON(200, response)
}

func (h *TaskHandler) Get(c *drift.Context) {
	ctx, teamID, err := scopedContext(c)
	if err != nil {
		c.BadRequest("no current team selected")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	task, err := h.taskService.Get(ctx, teamID, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.NotFound("task not found")
			return
		}
		c.InternalServerError("failed to get task")
		return
	}

	_ = c.JSON(200, dto.TaskResponse{ID: task.ID, TeamID: task.TeamID, Name: task.Name, Done: task.Done})
}

func (h *TaskHandler) Update(c *drift.Context) {
	ctx, teamID, err := scopedContext(c)
	if err != nil {
		c.BadRequest("no current team selected")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil || req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	task, err := h.taskService.Update(ctx, teamID, taskID, req.Name, req.Done)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.NotFound("task not found")
			return
		}
		c.InternalServerError("failed to update task")
		return
	}

	_ = c.JSON(200, dto.TaskResponse{ID: task.ID, TeamID: task.TeamID, Name: task.Name, Done: task.Done})
}

func (h *TaskHandler) Delete(c *drift.Context) {
	ctx, teamID, err := scopedContext(c)
	if err != nil {
		c.BadRequest("no current team selected")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	if err := h.taskService.Delete(ctx, teamID, taskID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.NotFound("task not found")
			return
		}
		c.InternalServerError("failed to delete task")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "task deleted"})
}
