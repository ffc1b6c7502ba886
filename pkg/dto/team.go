package dto

import "github.com/google/uuid"

type CreateTeamRequest struct {
	Name string `json:"name"`
}

type UpdateTeamRequest struct {
	Name string `json:"name"`
}

type AttachTeamRequest struct {
	TeamID uuid.UUID      `json:"team_id"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// SwitchTeamRequest with a null team_id clears the current team.
type SwitchTeamRequest struct {
	TeamID *uuid.UUID `json:"team_id"`
}

type TeamResponse struct {
	ID      uuid.UUID  `json:"id"`
	Name    string     `json:"name"`
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
	Current bool       `json:"current"`
}

type TeamMemberResponse struct {
	UserID uuid.UUID      `json:"user_id"`
	Meta   map[string]any `json:"meta,omitempty"`
	User   UserResponse   `json:"user"`
}
