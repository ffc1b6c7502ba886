package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/bojanv/teamo-api/internal/middleware"
	"github.com/bojanv/teamo-api/internal/services"
	"github.com/bojanv/teamo-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type InviteHandler struct {
	inviteService InviteServiceInterface
	teamService   TeamServiceInterface
	userService   UserServiceInterface
}

func NewInviteHandler(inviteService InviteServiceInterface, teamService TeamServiceInterface, userService UserServiceInterface) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		teamService:   teamService,
		userService:   userService,
	}
}

// Create invites an email address to the team in the URL. Owner-guarded by
// middleware.
func (h *InviteHandler) Create(c *drift.Context) {
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

	var req dto.CreateInviteRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	ctx := context.Background()

	pending, err := h.inviteService.HasPendingInvite(ctx, req.Email, teamID)
	if err != nil {
		c.InternalServerError("failed to check pending invites")
		return
	}
	if pending {
		c.BadRequest("this email already has a pending invite")
		return
	}

	invite, err := h.inviteService.InviteToTeam(ctx, user, req.Email, teamID, nil)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRecipient) {
			c.BadRequest("invalid recipient")
			return
		}
		c.InternalServerError("failed to create invite")
		return
	}

	_ = c.JSON(201, dto.InviteResponse{
		ID:        invite.ID,
		TeamID:    invite.TeamID,
		Type:      invite.Type,
		Email:     invite.Email,
		CreatedAt: invite.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// List returns pending invites and join requests for a team. Owner-guarded.
func (h *InviteHandler) List(c *drift.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	invites, err := h.inviteService.PendingInvitesForTeam(context.Background(), teamID)
	if err != nil {
		c.InternalServerError("failed to get invites")
		return
	}

	response := make([]dto.InviteResponse, len(invites))
	for i, invite := range invites {
		response[i] = dto.InviteResponse{
			ID:        invite.ID,
			TeamID:    invite.TeamID,
			Type:      invite.Type,
			Email:     invite.Email,
			CreatedAt: invite.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	_ = c.JSON(200, response)
}

// RequestToJoin records the authenticated user asking to join a team.
func (h *InviteHandler) RequestToJoin(c *drift.Context) {
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

	ctx := context.Background()

	pending, err := h.inviteService.HasPendingInvite(ctx, user.Email, teamID)
	if err != nil {
		c.InternalServerError("failed to check pending invites")
		return
	}
	if pending {
		c.BadRequest("you already have a pending invite or request for this team")
		return
	}

	invite, err := h.inviteService.RequestToJoin(ctx, user, teamID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTeamRef) {
			c.BadRequest("invalid team reference")
			return
		}
		c.InternalServerError("failed to create join request")
		return
	}

	_ = c.JSON(201, dto.InviteResponse{
		ID:        invite.ID,
		TeamID:    invite.TeamID,
		Type:      invite.Type,
		Email:     invite.Email,
		CreatedAt: invite.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// Accept consumes an accept token on behalf of the authenticated user. The
// invite must be addressed to the user's email.
func (h *InviteHandler) Accept(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx := context.Background()

	invite, err := h.inviteService.GetInviteFromAcceptToken(ctx, c.Param("token"))
	if err != nil {
		c.NotFound("invite not found or already processed")
		return
	}

	if invite.Email != user.Email {
		c.Forbidden("this invite is addressed to a different email")
		return
	}

	if err := h.inviteService.AcceptInvite(ctx, user, invite); err != nil {
		c.InternalServerError("failed to accept invite")
		return
	}

	team, _ := h.teamService.GetByID(ctx, invite.TeamID)
	teamName := "the team"
	if team != nil {
		teamName = team.Name
	}

	_ = c.JSON(200, map[string]string{"message": fmt.Sprintf("You have joined %s!", teamName)})
}

// AcceptPage renders the emailed accept link as a confirmation page with an
// accept form. No auth required: the token arrives by email and is the proof.
func (h *InviteHandler) AcceptPage(c *drift.Context) {
	ctx := context.Background()
	token := c.Param("token")

	invite, err := h.inviteService.GetInviteFromAcceptToken(ctx, token)
	if err != nil {
		h.renderMessage(c, 404, "Invite not found or already processed")
		return
	}

	team, err := h.teamService.GetByID(ctx, invite.TeamID)
	if err != nil {
		h.renderMessage(c, 404, "Team not found")
		return
	}

	h.renderAcceptPage(c, token, invite.DenyToken, team.Name)
}

// AcceptByToken performs the accept submitted from the page. The joining
// account is the one registered under the invited email, so the invite can
// never attach anyone else.
func (h *InviteHandler) AcceptByToken(c *drift.Context) {
	ctx := context.Background()

	invite, err := h.inviteService.GetInviteFromAcceptToken(ctx, c.Param("token"))
	if err != nil {
		h.renderMessage(c, 404, "Invite not found or already processed")
		return
	}

	user, err := h.userService.GetByEmail(ctx, invite.Email)
	if err != nil {
		h.renderMessage(c, 404, "No account found for this invite. Register with the invited email first.")
		return
	}

	if err := h.inviteService.AcceptInvite(ctx, user, invite); err != nil {
		h.renderMessage(c, 500, "Failed to accept the invite")
		return
	}

	team, _ := h.teamService.GetByID(ctx, invite.TeamID)
	teamName := "the team"
	if team != nil {
		teamName = team.Name
	}

	h.renderMessage(c, 200, fmt.Sprintf("You have joined %s!", teamName))
}

// Deny consumes a deny token. No auth required: the token arrives by email
// and is the proof.
func (h *InviteHandler) Deny(c *drift.Context) {
	ctx := context.Background()

	invite, err := h.inviteService.GetInviteFromDenyToken(ctx, c.Param("token"))
	if err != nil {
		h.renderMessage(c, 404, "Invite not found or already processed")
		return
	}

	if err := h.inviteService.DenyInvite(ctx, invite); err != nil {
		h.renderMessage(c, 500, "Failed to decline the invite")
		return
	}

	h.renderMessage(c, 200, "Invite declined")
}

func (h *InviteHandler) renderAcceptPage(c *drift.Context, acceptToken, denyToken, teamName string) {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Team Invitation</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 400px; margin: 50px auto; padding: 20px; text-align: center; }
        h1 { color: #333; }
        p { color: #666; margin: 20px 0; }
        .team-name { font-weight: bold; color: #333; }
        .buttons { display: flex; gap: 10px; justify-content: center; margin-top: 30px; }
        button, .decline { padding: 12px 24px; font-size: 16px; border: none; border-radius: 6px; cursor: pointer; text-decoration: none; }
        .accept { background: #22c55e; color: white; }
        .accept:hover { background: #16a34a; }
        .decline { background: #e5e7eb; color: #333; }
        .decline:hover { background: #d1d5db; }
    </style>
</head>
<body>
    <h1>Team Invitation</h1>
    <p>You have been invited to join</p>
    <p class="team-name">%s</p>
    <div class="buttons">
        <form action="/invite/accept/%s" method="POST" style="display:inline;">
            <button type="submit" class="accept">Accept</button>
        </form>
        <a class="decline" href="/invite/deny/%s">Decline</a>
    </div>
</body>
</html>`, teamName, acceptToken, denyToken)

	_ = c.HTML(200, html)
}

func (h *InviteHandler) renderMessage(c *drift.Context, status int, message string) {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Team Invitation</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 400px; margin: 50px auto; padding: 20px; text-align: center; }
        h1 { color: #333; }
        p { color: #666; }
    </style>
</head>
<body>
    <h1>%s</h1>
</body>
</html>`, message)

	_ = c.HTML(status, html)
}
