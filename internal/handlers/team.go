package handlers

import (
	"context"
	"errors"

	"github.com/bojanv/teamo-api/internal/middleware"
	"github.com/bojanv/teamo-api/internal/services"
	"github.com/bojanv/teamo-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TeamHandler struct {
	teamService TeamServiceInterface
	memberships MembershipServiceInterface
}

func NewTeamHandler(teamService TeamServiceInterface, memberships MembershipServiceInterface) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		memberships: memberships,
	}
}

func (h *TeamHandler) Create(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	team, err := h.teamService.Create(context.Background(), req.Name, user)
	if err != nil {
		c.InternalServerError("failed to create team")
		return
	}

	_ = c.JSON(201, dto.TeamResponse{
		ID:      team.ID,
		Name:    team.Name,
		OwnerID: team.OwnerID,
		Current: user.CurrentTeamID != nil && *user.CurrentTeamID == team.ID,
	})
}

func (h *TeamHandler) List(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	teams, err := h.teamService.GetUserTeams(context.Background(), user.ID)
	if err != nil {
		c.InternalServerError("failed to get teams")
		return
	}

	response := make([]dto.TeamResponse, len(teams))
	for i, team := range teams {
		response[i] = dto.TeamResponse{
			ID:      team.ID,
			Name:    team.Name,
			OwnerID: team.OwnerID,
			Current: user.CurrentTeamID != nil && *user.CurrentTeamID == team.ID,
		}
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) Get(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	isMember, err := h.memberships.Contains(context.Background(), user.ID, teamID)
	if err != nil || !isMember {
		c.NotFound("team not found")
		return
	}

	team, err := h.teamService.GetByID(context.Background(), teamID)
	if err != nil {
		c.NotFound("team not found")
		return
	}

	_ = c.JSON(200, dto.TeamResponse{
		ID:      team.ID,
		Name:    team.Name,
		OwnerID: team.OwnerID,
		Current: user.CurrentTeamID != nil && *user.CurrentTeamID == team.ID,
	})
}

func (h *TeamHandler) Update(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	team, err := h.teamService.Update(context.Background(), teamID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			c.NotFound("team not found")
			return
		}
		c.InternalServerError("failed to update team")
		return
	}

	_ = c.JSON(200, dto.TeamResponse{
		ID:      team.ID,
		Name:    team.Name,
		OwnerID: team.OwnerID,
	})
}

func (h *TeamHandler) Delete(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if err := h.teamService.Delete(context.Background(), teamID); err != nil {
		c.InternalServerError("failed to delete team")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "team deleted"})
}

func (h *TeamHandler) GetMembers(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	isMember, err := h.memberships.Contains(context.Background(), user.ID, teamID)
	if err != nil || !isMember {
		c.NotFound("team not found")
		return
	}

	members, err := h.memberships.ListMembers(context.Background(), teamID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	response := make([]dto.TeamMemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.TeamMemberResponse{
			UserID: m.UserID,
			Meta:   m.Meta,
			User: dto.UserResponse{
				ID:    m.User.ID,
				Email: m.User.Email,
				Name:  m.User.Name,
			},
		}
	}

	_ = c.JSON(200, response)
}

// Attach joins the authenticated user to a team.
func (h *TeamHandler) Attach(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.AttachTeamRequest
	if err := c.BindJSON(&req); err != nil || req.TeamID == uuid.Nil {
		c.BadRequest("team_id is required")
		return
	}

	if _, err := h.teamService.AttachTeam(context.Background(), user, req.TeamID, req.Meta); err != nil {
		c.InternalServerError("failed to join team")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		CurrentTeamID: user.CurrentTeamID,
	})
}

// Detach removes the authenticated user from a team.
func (h *TeamHandler) Detach(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if _, err := h.teamService.DetachTeam(context.Background(), user, teamID); err != nil {
		c.InternalServerError("failed to leave team")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		CurrentTeamID: user.CurrentTeamID,
	})
}

// Switch changes the authenticated user's current team; a null team_id clears
// it.
func (h *TeamHandler) Switch(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.SwitchTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	var ref any
	if req.TeamID != nil {
		ref = *req.TeamID
	}

	_, err := h.teamService.SwitchTeam(context.Background(), user, ref)
	if err != nil {
		var notInTeam *services.UserNotInTeamError
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			c.NotFound("team not found")
		case errors.As(err, &notInTeam):
			c.Forbidden(notInTeam.Error())
		default:
			c.InternalServerError("failed to switch team")
		}
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		CurrentTeamID: user.CurrentTeamID,
	})
}
