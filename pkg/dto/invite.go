package dto

import "github.com/google/uuid"

type CreateInviteRequest struct {
	Email string `json:"email"`
}

type InviteResponse struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Type      string    `json:"type"`
	Email     string    `json:"email"`
	CreatedAt string    `json:"created_at"`
}
