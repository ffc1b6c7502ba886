package middleware

import (
	"context"

	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ownershipChecker interface {
	IsOwnerOfTeam(ctx context.Context, user *models.User, ref any) (bool, error)
}

// TeamOwner guards routes carrying a team id parameter: only the team's owner
// (who is still a member) passes. Must run after CurrentUser.
func TeamOwner(teams ownershipChecker) drift.HandlerFunc {
	return func(c *drift.Context) {
		teamID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.NotFound("team not found")
			return
		}

		user := GetUser(c)
		if user == nil {
			c.Unauthorized("not authenticated")
			return
		}

		isOwner, err := teams.IsOwnerOfTeam(context.Background(), user, teamID)
		if err != nil || !isOwner {
			c.Forbidden("team owner access required")
			return
		}

		c.Next()
	}
}
