package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// InviteTypeInvite is sent by a team member to an outsider.
	InviteTypeInvite = "invite"
	// InviteTypeRequest is an outsider asking to join.
	InviteTypeRequest = "request"
)

type TeamInvite struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	TeamID      uuid.UUID `json:"team_id"`
	Type        string    `json:"type"`
	Email       string    `json:"email"`
	AcceptToken string    `json:"-"`
	DenyToken   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Team        *Team     `json:"team,omitempty"`
}
