package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bojanv/teamo-api/internal/database"
	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
)

// MembershipService is the ledger of (user, team) associations.
type MembershipService struct {
	db *database.DB
}

func NewMembershipService(db *database.DB) *MembershipService {
	return &MembershipService{db: db}
}

// Attach inserts a membership row if one does not exist for the pair and
// reports whether a row was created. A concurrent duplicate insert lands on
// the unique pair constraint and is swallowed as a no-op.
func (s *MembershipService) Attach(ctx context.Context, userID, teamID uuid.UUID, meta map[string]any) (bool, error) {
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return false, fmt.Errorf("failed to encode membership meta: %w", err)
	}

	tag, err := s.db.Pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (user_id, team_id, meta)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, team_id) DO NOTHING
	`, s.db.Tables.TeamUser), userID, teamID, metaJSON)
	if err != nil {
		return false, fmt.Errorf("failed to attach user to team: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Detach removes the membership row for the pair; absent rows are a no-op.
func (s *MembershipService) Detach(ctx context.Context, userID, teamID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s WHERE user_id = $1 AND team_id = $2
	`, s.db.Tables.TeamUser), userID, teamID)
	return err
}

func (s *MembershipService) Contains(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT EXISTS(SELECT 1 FROM %s WHERE user_id = $1 AND team_id = $2)
	`, s.db.Tables.TeamUser), userID, teamID).Scan(&exists)
	return exists, err
}

func (s *MembershipService) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE user_id = $1
	`, s.db.Tables.TeamUser), userID).Scan(&count)
	return count, err
}

// ListForUser returns the user's teams ordered by when they joined.
func (s *MembershipService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	rows, err := s.db.Pool.Query(ctx, fmt.Sprintf(`
		SELECT t.id, t.name, t.owner_id, t.created_at, t.updated_at
		FROM %s t
		JOIN %s tu ON t.id = tu.team_id
		WHERE tu.user_id = $1
		ORDER BY tu.created_at
	`, s.db.Tables.Teams, s.db.Tables.TeamUser), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (s *MembershipService) ListMembers(ctx context.Context, teamID uuid.UUID) ([]models.Membership, error) {
	rows, err := s.db.Pool.Query(ctx, fmt.Sprintf(`
		SELECT tu.user_id, tu.team_id, tu.meta, tu.created_at, tu.updated_at,
		       u.id, u.email, u.name, u.current_team_id, u.created_at, u.updated_at
		FROM %s tu
		JOIN %s u ON tu.user_id = u.id
		WHERE tu.team_id = $1
		ORDER BY tu.created_at
	`, s.db.Tables.TeamUser, s.db.Tables.Users), teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var member models.Membership
		var user models.User
		var metaJSON []byte
		if err := rows.Scan(
			&member.UserID, &member.TeamID, &metaJSON, &member.CreatedAt, &member.UpdatedAt,
			&user.ID, &user.Email, &user.Name, &user.CurrentTeamID, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &member.Meta); err != nil {
				return nil, fmt.Errorf("failed to decode membership meta: %w", err)
			}
		}
		member.User = &user
		members = append(members, member)
	}
	return members, rows.Err()
}
