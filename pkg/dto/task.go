package dto

import "github.com/google/uuid"

type CreateTaskRequest struct {
	Name string `json:"name"`
}

type UpdateTaskRequest struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

type TaskResponse struct {
	ID     uuid.UUID `json:"id"`
	TeamID uuid.UUID `json:"team_id"`
	Name   string    `json:"name"`
	Done   bool      `json:"done"`
}
