package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTeamRef     = errors.New("team reference must be an id, a team, or a map with an id key")
	ErrInvalidRecipient   = errors.New("recipient has no email attribute and is not a string")
	ErrTeamNotFound       = errors.New("team not found")
	ErrNoCurrentTeam      = errors.New("user has no current team selected")
	ErrInviteNotFound     = errors.New("invite not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserNotInTeamError carries the team's display name for the caller's error
// message.
type UserNotInTeamError struct {
	TeamName string
}

func (e *UserNotInTeamError) Error() string {
	return fmt.Sprintf("user is not a member of team %q", e.TeamName)
}
