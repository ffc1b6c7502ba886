package middleware

import (
	"context"

	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const CurrentUserKey = "current_user"

type userLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CurrentUser loads the authenticated user's record so downstream handlers can
// work with its current-team pointer. Must run after Auth.
func CurrentUser(users userLoader) drift.HandlerFunc {
	return func(c *drift.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.Unauthorized("not authenticated")
			return
		}

		user, err := users.GetByID(context.Background(), userID)
		if err != nil {
			c.Unauthorized("user no longer exists")
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

func GetUser(c *drift.Context) *models.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
