package handlers

import (
	"context"

	"github.com/bojanv/teamo-api/internal/middleware"
	"github.com/bojanv/teamo-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService  UserServiceInterface
	tokenService TokenServiceInterface
}

func NewUserHandler(userService UserServiceInterface, tokenService TokenServiceInterface) *UserHandler {
	return &UserHandler{userService: userService, tokenService: tokenService}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		CurrentTeamID: user.CurrentTeamID,
	})
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	updated, err := h.userService.Update(context.Background(), user.ID, req.Name)
	if err != nil {
		c.InternalServerError("failed to update user")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:            updated.ID,
		Email:         updated.Email,
		Name:          updated.Name,
		CurrentTeamID: updated.CurrentTeamID,
	})
}

// DeleteMe soft-deletes by default; memberships survive a soft delete and are
// cleared only on a hard delete.
func (h *UserHandler) DeleteMe(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.DeleteUserRequest
	_ = c.BindJSON(&req)

	ctx := context.Background()
	var err error
	if req.Hard {
		err = h.userService.HardDelete(ctx, user)
	} else {
		err = h.userService.SoftDelete(ctx, user.ID)
	}
	if err != nil {
		c.InternalServerError("failed to delete account")
		return
	}

	_ = h.tokenService.RevokeAllUserTokens(ctx, user.ID)

	_ = c.JSON(200, map[string]string{"message": "account deleted"})
}
