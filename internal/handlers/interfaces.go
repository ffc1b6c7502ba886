package handlers

import (
	"context"
	"time"

	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, user *models.User) error
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name string, owner *models.User) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	Update(ctx context.Context, teamID uuid.UUID, name string) (*models.Team, error)
	Delete(ctx context.Context, teamID uuid.UUID) error
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	AttachTeam(ctx context.Context, user *models.User, ref any, meta map[string]any) (*models.User, error)
	DetachTeam(ctx context.Context, user *models.User, ref any) (*models.User, error)
	SwitchTeam(ctx context.Context, user *models.User, ref any) (*models.User, error)
	IsOwner(ctx context.Context, user *models.User) (bool, error)
	IsOwnerOfTeam(ctx context.Context, user *models.User, ref any) (bool, error)
}

// MembershipServiceInterface defines the methods used by handlers from MembershipService
type MembershipServiceInterface interface {
	Contains(ctx context.Context, userID, teamID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]models.Membership, error)
}

// InviteServiceInterface defines the methods used by handlers from InviteService
type InviteServiceInterface interface {
	InviteToTeam(ctx context.Context, inviter *models.User, recipient any, team any, onCreated func(*models.TeamInvite)) (*models.TeamInvite, error)
	RequestToJoin(ctx context.Context, user *models.User, team any) (*models.TeamInvite, error)
	HasPendingInvite(ctx context.Context, email string, team any) (bool, error)
	GetInviteFromAcceptToken(ctx context.Context, token string) (*models.TeamInvite, error)
	GetInviteFromDenyToken(ctx context.Context, token string) (*models.TeamInvite, error)
	PendingInvitesForTeam(ctx context.Context, teamID uuid.UUID) ([]models.TeamInvite, error)
	AcceptInvite(ctx context.Context, user *models.User, invite *models.TeamInvite) error
	DenyInvite(ctx context.Context, invite *models.TeamInvite) error
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	Create(ctx context.Context, teamID uuid.UUID, name string) (*models.Task, error)
	ListForTeam(ctx context.Context, teamID uuid.UUID) ([]models.Task, error)
	Get(ctx context.Context, teamID, taskID uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, teamID, taskID uuid.UUID, name string, done bool) (*models.Task, error)
	Delete(ctx context.Context, teamID, taskID uuid.UUID) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}
