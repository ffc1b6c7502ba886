package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is a team-scoped record. Every query touching it takes the team id
// explicitly; there is no implicit global filter.
type Task struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Name      string    `json:"name"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
