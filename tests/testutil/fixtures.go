package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bojanv/teamo-api/internal/database"
	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext password every fixture user is created with.
const TestPassword = "password123"

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email: fmt.Sprintf("user%d@example.com", f.counter),
		Name:  fmt.Sprintf("Test User %d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, password_hash, current_team_id, created_at, updated_at
	`, user.Email, user.Name, string(hash)).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.CurrentTeamID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// CreateTeam creates a test team owned by the given user. The owner is added
// to the membership ledger like the create flow does.
func (f *Fixtures) CreateTeam(t *testing.T, owner *models.User, opts ...TeamOption) *models.Team {
	t.Helper()
	f.counter++

	team := &models.Team{
		Name:    fmt.Sprintf("Test Team %d", f.counter),
		OwnerID: &owner.ID,
	}

	for _, opt := range opts {
		opt(team)
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id, created_at, updated_at
	`, team.Name, team.OwnerID).Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_user (user_id, team_id)
		VALUES ($1, $2)
	`, owner.ID, team.ID)
	if err != nil {
		t.Fatalf("failed to add owner as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return team
}

// TeamOption configures a test team
type TeamOption func(*models.Team)

// WithTeamName sets the team's name
func WithTeamName(name string) TeamOption {
	return func(t *models.Team) {
		t.Name = name
	}
}

// AttachToTeam adds a membership row for the user
func (f *Fixtures) AttachToTeam(t *testing.T, user *models.User, team *models.Team) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO team_user (user_id, team_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, team_id) DO NOTHING
	`, user.ID, team.ID)
	if err != nil {
		t.Fatalf("failed to attach user to team: %v", err)
	}
}

// SetCurrentTeam points the user's current team at the given team
func (f *Fixtures) SetCurrentTeam(t *testing.T, user *models.User, team *models.Team) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		UPDATE users SET current_team_id = $1 WHERE id = $2
	`, team.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to set current team: %v", err)
	}
	id := team.ID
	user.CurrentTeamID = &id
}

// CreateInvite inserts an invite for the email into the team
func (f *Fixtures) CreateInvite(t *testing.T, inviter *models.User, team *models.Team, email string) *models.TeamInvite {
	t.Helper()
	f.counter++

	invite := &models.TeamInvite{
		UserID:      inviter.ID,
		TeamID:      team.ID,
		Type:        models.InviteTypeInvite,
		Email:       email,
		AcceptToken: fmt.Sprintf("accept-token-%d", f.counter),
		DenyToken:   fmt.Sprintf("deny-token-%d", f.counter),
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO team_invites (user_id, team_id, type, email, accept_token, deny_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, invite.UserID, invite.TeamID, invite.Type, invite.Email, invite.AcceptToken, invite.DenyToken).
		Scan(&invite.ID, &invite.CreatedAt, &invite.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create invite: %v", err)
	}

	return invite
}

// CreateTask inserts a task owned by the team
func (f *Fixtures) CreateTask(t *testing.T, team *models.Team, name string) *models.Task {
	t.Helper()

	task := &models.Task{TeamID: team.ID, Name: name}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (team_id, name)
		VALUES ($1, $2)
		RETURNING id, team_id, name, done, created_at, updated_at
	`, task.TeamID, task.Name).Scan(&task.ID, &task.TeamID, &task.Name, &task.Done, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}
