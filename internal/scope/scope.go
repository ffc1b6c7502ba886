// Package scope carries the acting user's current team through a request.
// Team-scoped reads and writes take the team id from here explicitly instead
// of relying on an implicit global query filter.
package scope

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNoTeamContext = errors.New("no authenticated user with a selected team present")

type teamKey struct{}

func WithTeam(ctx context.Context, teamID uuid.UUID) context.Context {
	return context.WithValue(ctx, teamKey{}, teamID)
}

// TeamID returns the current team for this request, or ErrNoTeamContext when
// none was selected.
func TeamID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(teamKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoTeamContext
	}
	return id, nil
}
