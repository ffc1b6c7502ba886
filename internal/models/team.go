package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Membership is one row of the user/team ledger. Meta carries arbitrary
// caller-supplied attributes stored alongside the pair.
type Membership struct {
	UserID    uuid.UUID      `json:"user_id"`
	TeamID    uuid.UUID      `json:"team_id"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	User      *User          `json:"user,omitempty"`
}
