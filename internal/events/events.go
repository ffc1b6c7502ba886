package events

import (
	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
)

// Event is a fire-and-forget domain notification. Listeners must not assume
// any ordering beyond "emitted after the write that caused it".
type Event interface {
	Name() string
}

type UserJoinedTeam struct {
	UserID uuid.UUID
	TeamID uuid.UUID
}

func (UserJoinedTeam) Name() string { return "user.joined_team" }

type UserLeftTeam struct {
	UserID uuid.UUID
	TeamID uuid.UUID
}

func (UserLeftTeam) Name() string { return "user.left_team" }

type UserInvitedToTeam struct {
	Invite *models.TeamInvite
}

func (UserInvitedToTeam) Name() string { return "user.invited_to_team" }
