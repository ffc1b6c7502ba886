package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bojanv/teamo-api/internal/database"
	"github.com/bojanv/teamo-api/internal/events"
	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ResolveTeamID normalizes the accepted team reference shapes to an id:
// a uuid, a uuid string, a team value or pointer, or a map with an "id" key.
func ResolveTeamID(ref any) (uuid.UUID, error) {
	switch v := ref.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, ErrInvalidTeamRef
		}
		return id, nil
	case models.Team:
		return v.ID, nil
	case *models.Team:
		if v == nil {
			return uuid.Nil, ErrInvalidTeamRef
		}
		return v.ID, nil
	case map[string]any:
		id, ok := v["id"]
		if !ok {
			return uuid.Nil, ErrInvalidTeamRef
		}
		return ResolveTeamID(id)
	default:
		return uuid.Nil, ErrInvalidTeamRef
	}
}

type TeamService struct {
	db     *database.DB
	ledger *MembershipService
	bus    events.Dispatcher
}

func NewTeamService(db *database.DB, ledger *MembershipService, bus events.Dispatcher) *TeamService {
	return &TeamService{db: db, ledger: ledger, bus: bus}
}

// Create inserts the team and attaches the owner as its first member in one
// transaction, then applies the first-attach current-team rule.
func (s *TeamService) Create(ctx context.Context, name string, owner *models.User) (*models.Team, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var team models.Team
	err = tx.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id, created_at, updated_at
	`, s.db.Tables.Teams), name, owner.ID).Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (user_id, team_id)
		VALUES ($1, $2)
	`, s.db.Tables.TeamUser), owner.ID, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add owner as member: %w", err)
	}

	if owner.CurrentTeamID == nil {
		_, err = tx.Exec(ctx, fmt.Sprintf(`
			UPDATE %s SET current_team_id = $1, updated_at = NOW() WHERE id = $2
		`, s.db.Tables.Users), team.ID, owner.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to set current team: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if owner.CurrentTeamID == nil {
		id := team.ID
		owner.CurrentTeamID = &id
	}

	s.bus.Emit(ctx, events.UserJoinedTeam{UserID: owner.ID, TeamID: team.ID})

	return &team, nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, name, owner_id, created_at, updated_at
		FROM %s WHERE id = $1
	`, s.db.Tables.Teams), teamID).Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) Update(ctx context.Context, teamID uuid.UUID, name string) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, owner_id, created_at, updated_at
	`, s.db.Tables.Teams), name, teamID).Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Delete removes the team; membership and invite rows cascade with it.
func (s *TeamService) Delete(ctx context.Context, teamID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.db.Tables.Teams), teamID)
	return err
}

func (s *TeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	return s.ledger.ListForUser(ctx, userID)
}

// AttachTeam joins the user to a team. The first attached team becomes the
// user's current team even when the membership row already exists. The joined
// event fires only when a row was actually created.
func (s *TeamService) AttachTeam(ctx context.Context, user *models.User, ref any, meta map[string]any) (*models.User, error) {
	teamID, err := ResolveTeamID(ref)
	if err != nil {
		return nil, err
	}

	if user.CurrentTeamID == nil {
		if err := s.setCurrentTeam(ctx, user, &teamID); err != nil {
			return nil, err
		}
	}

	created, err := s.ledger.Attach(ctx, user.ID, teamID, meta)
	if err != nil {
		return nil, err
	}
	if created {
		s.bus.Emit(ctx, events.UserJoinedTeam{UserID: user.ID, TeamID: teamID})
	}

	return user, nil
}

// DetachTeam removes the user from a team. The detach and the left event are
// unconditional, even for a team the user never belonged to. The current team
// pointer is cleared when the user has no teams left or the detached team was
// the current one.
func (s *TeamService) DetachTeam(ctx context.Context, user *models.User, ref any) (*models.User, error) {
	teamID, err := ResolveTeamID(ref)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Detach(ctx, user.ID, teamID); err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.UserLeftTeam{UserID: user.ID, TeamID: teamID})

	count, err := s.ledger.CountForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if count == 0 || (user.CurrentTeamID != nil && *user.CurrentTeamID == teamID) {
		if err := s.setCurrentTeam(ctx, user, nil); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// AttachTeams applies AttachTeam over the input in order. There is no batch
// atomicity: a failure partway through leaves earlier teams attached.
func (s *TeamService) AttachTeams(ctx context.Context, user *models.User, refs []any) (*models.User, error) {
	for _, ref := range refs {
		if _, err := s.AttachTeam(ctx, user, ref, nil); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *TeamService) DetachTeams(ctx context.Context, user *models.User, refs []any) (*models.User, error) {
	for _, ref := range refs {
		if _, err := s.DetachTeam(ctx, user, ref); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// SwitchTeam changes the user's current team. uuid.Nil (or nil) clears the
// pointer without validation. The membership check and the pointer write share
// one transaction so a concurrent detach cannot slip between them.
func (s *TeamService) SwitchTeam(ctx context.Context, user *models.User, ref any) (*models.User, error) {
	if ref == nil {
		if err := s.setCurrentTeam(ctx, user, nil); err != nil {
			return nil, err
		}
		return user, nil
	}

	teamID, err := ResolveTeamID(ref)
	if err != nil {
		return nil, err
	}
	if teamID == uuid.Nil {
		if err := s.setCurrentTeam(ctx, user, nil); err != nil {
			return nil, err
		}
		return user, nil
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var name string
	err = tx.QueryRow(ctx, fmt.Sprintf(`
		SELECT name FROM %s WHERE id = $1
	`, s.db.Tables.Teams), teamID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	var member bool
	err = tx.QueryRow(ctx, fmt.Sprintf(`
		SELECT EXISTS(SELECT 1 FROM %s WHERE user_id = $1 AND team_id = $2)
	`, s.db.Tables.TeamUser), user.ID, teamID).Scan(&member)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, &UserNotInTeamError{TeamName: name}
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET current_team_id = $1, updated_at = NOW() WHERE id = $2
	`, s.db.Tables.Users), teamID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to switch team: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.CurrentTeamID = &teamID
	return user, nil
}

// IsOwner reports whether the user owns at least one team they are also a
// member of.
func (s *TeamService) IsOwner(ctx context.Context, user *models.User) (bool, error) {
	var owns bool
	err := s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT EXISTS(
			SELECT 1 FROM %s t
			JOIN %s tu ON t.id = tu.team_id
			WHERE t.owner_id = $1 AND tu.user_id = $1
		)
	`, s.db.Tables.Teams, s.db.Tables.TeamUser), user.ID).Scan(&owns)
	return owns, err
}

// IsOwnerOfTeam requires both ownership of record and current membership. An
// owner who has left the team keeps no admin rights.
func (s *TeamService) IsOwnerOfTeam(ctx context.Context, user *models.User, ref any) (bool, error) {
	teamID, err := ResolveTeamID(ref)
	if err != nil {
		return false, err
	}

	var owns bool
	err = s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT EXISTS(
			SELECT 1 FROM %s t
			JOIN %s tu ON t.id = tu.team_id
			WHERE t.id = $1 AND t.owner_id = $2 AND tu.user_id = $2
		)
	`, s.db.Tables.Teams, s.db.Tables.TeamUser), teamID, user.ID).Scan(&owns)
	return owns, err
}

func (s *TeamService) setCurrentTeam(ctx context.Context, user *models.User, teamID *uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET current_team_id = $1, updated_at = NOW() WHERE id = $2
	`, s.db.Tables.Users), teamID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update current team: %w", err)
	}
	user.CurrentTeamID = teamID
	return nil
}
