package dto

import "github.com/google/uuid"

type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	CurrentTeamID *uuid.UUID `json:"current_team_id,omitempty"`
}

type UpdateUserRequest struct {
	Name string `json:"name"`
}

type DeleteUserRequest struct {
	// Hard permanently removes the account and all of its memberships.
	Hard bool `json:"hard"`
}
