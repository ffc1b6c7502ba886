package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/bojanv/teamo-api/internal/database"
	"github.com/bojanv/teamo-api/internal/events"
	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InviteService struct {
	db    *database.DB
	teams *TeamService
	bus   events.Dispatcher
}

func NewInviteService(db *database.DB, teams *TeamService, bus events.Dispatcher) *InviteService {
	return &InviteService{db: db, teams: teams, bus: bus}
}

// inviteToken returns a fixed-length opaque token derived from 32 bytes of
// CSPRNG output.
func inviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}

// resolveRecipientEmail accepts a plain email string or anything carrying an
// email attribute (a user, or a map with an "email" key).
func resolveRecipientEmail(recipient any) (string, error) {
	switch v := recipient.(type) {
	case string:
		return v, nil
	case models.User:
		return v.Email, nil
	case *models.User:
		if v == nil {
			return "", ErrInvalidRecipient
		}
		return v.Email, nil
	case map[string]any:
		if email, ok := v["email"].(string); ok {
			return email, nil
		}
		return "", ErrInvalidRecipient
	default:
		return "", ErrInvalidRecipient
	}
}

// InviteToTeam creates an invite addressed to the recipient's email. When team
// is nil the inviter's current team is used. The created event always fires;
// onCreated, when supplied, runs afterwards as a synchronous continuation.
func (s *InviteService) InviteToTeam(ctx context.Context, inviter *models.User, recipient any, team any, onCreated func(*models.TeamInvite)) (*models.TeamInvite, error) {
	var teamID uuid.UUID
	if team == nil {
		if inviter.CurrentTeamID == nil {
			return nil, ErrNoCurrentTeam
		}
		teamID = *inviter.CurrentTeamID
	} else {
		var err error
		teamID, err = ResolveTeamID(team)
		if err != nil {
			return nil, err
		}
	}

	email, err := resolveRecipientEmail(recipient)
	if err != nil {
		return nil, err
	}

	invite, err := s.createInvite(ctx, inviter.ID, teamID, models.InviteTypeInvite, email)
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.UserInvitedToTeam{Invite: invite})

	if onCreated != nil {
		onCreated(invite)
	}
	return invite, nil
}

// RequestToJoin records an outsider asking to join a team.
func (s *InviteService) RequestToJoin(ctx context.Context, user *models.User, team any) (*models.TeamInvite, error) {
	teamID, err := ResolveTeamID(team)
	if err != nil {
		return nil, err
	}
	return s.createInvite(ctx, user.ID, teamID, models.InviteTypeRequest, user.Email)
}

func (s *InviteService) createInvite(ctx context.Context, userID, teamID uuid.UUID, kind, email string) (*models.TeamInvite, error) {
	acceptToken, err := inviteToken()
	if err != nil {
		return nil, err
	}
	denyToken, err := inviteToken()
	if err != nil {
		return nil, err
	}

	invite := models.TeamInvite{
		UserID:      userID,
		TeamID:      teamID,
		Type:        kind,
		Email:       email,
		AcceptToken: acceptToken,
		DenyToken:   denyToken,
	}
	err = s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (user_id, team_id, type, email, accept_token, deny_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, s.db.Tables.TeamInvites), userID, teamID, kind, email, acceptToken, denyToken).
		Scan(&invite.ID, &invite.CreatedAt, &invite.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return &invite, nil
}

// HasPendingInvite reports whether any invite or request exists for the email
// and team, regardless of type.
func (s *InviteService) HasPendingInvite(ctx context.Context, email string, team any) (bool, error) {
	teamID, err := ResolveTeamID(team)
	if err != nil {
		return false, err
	}

	var exists bool
	err = s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT EXISTS(SELECT 1 FROM %s WHERE email = $1 AND team_id = $2)
	`, s.db.Tables.TeamInvites), email, teamID).Scan(&exists)
	return exists, err
}

func (s *InviteService) GetInviteFromAcceptToken(ctx context.Context, token string) (*models.TeamInvite, error) {
	return s.getByToken(ctx, "accept_token", token)
}

func (s *InviteService) GetInviteFromDenyToken(ctx context.Context, token string) (*models.TeamInvite, error) {
	return s.getByToken(ctx, "deny_token", token)
}

func (s *InviteService) getByToken(ctx context.Context, column, token string) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	err := s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, user_id, team_id, type, email, accept_token, deny_token, created_at, updated_at
		FROM %s WHERE %s = $1
	`, s.db.Tables.TeamInvites, column), token).Scan(
		&invite.ID, &invite.UserID, &invite.TeamID, &invite.Type, &invite.Email,
		&invite.AcceptToken, &invite.DenyToken, &invite.CreatedAt, &invite.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// PendingInvitesForTeam lists invites and join requests for a team.
func (s *InviteService) PendingInvitesForTeam(ctx context.Context, teamID uuid.UUID) ([]models.TeamInvite, error) {
	rows, err := s.db.Pool.Query(ctx, fmt.Sprintf(`
		SELECT id, user_id, team_id, type, email, accept_token, deny_token, created_at, updated_at
		FROM %s WHERE team_id = $1
		ORDER BY created_at DESC
	`, s.db.Tables.TeamInvites), teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []models.TeamInvite
	for rows.Next() {
		var invite models.TeamInvite
		if err := rows.Scan(
			&invite.ID, &invite.UserID, &invite.TeamID, &invite.Type, &invite.Email,
			&invite.AcceptToken, &invite.DenyToken, &invite.CreatedAt, &invite.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, rows.Err()
}

// AcceptInvite attaches the accepting user to the invite's team and deletes
// the invite. Verifying that the user's email matches the invite is the
// caller's job.
func (s *InviteService) AcceptInvite(ctx context.Context, user *models.User, invite *models.TeamInvite) error {
	if _, err := s.teams.AttachTeam(ctx, user, invite.TeamID, nil); err != nil {
		return err
	}
	return s.deleteInvite(ctx, invite.ID)
}

// DenyInvite deletes the invite row; nothing else happens.
func (s *InviteService) DenyInvite(ctx context.Context, invite *models.TeamInvite) error {
	return s.deleteInvite(ctx, invite.ID)
}

func (s *InviteService) deleteInvite(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.db.Tables.TeamInvites), id)
	return err
}
