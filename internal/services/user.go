package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bojanv/teamo-api/internal/database"
	"github.com/bojanv/teamo-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db     *database.DB
	ledger *MembershipService
}

func NewUserService(db *database.DB, ledger *MembershipService) *UserService {
	return &UserService{db: db, ledger: ledger}
}

const userColumns = "id, email, name, password_hash, current_team_id, deleted_at, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.CurrentTeamID, &user.DeletedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING %s
	`, s.db.Tables.Users, userColumns), email, name, string(hash)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM %s WHERE email = $1 AND deleted_at IS NULL
	`, userColumns, s.db.Tables.Users), email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL
	`, userColumns, s.db.Tables.Users), id))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM %s WHERE email = $1 AND deleted_at IS NULL
	`, userColumns, s.db.Tables.Users), email))
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s SET name = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING %s
	`, s.db.Tables.Users, userColumns), name, id))
}

// SoftDelete marks the user deleted; membership rows stay in place.
func (s *UserService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, s.db.Tables.Users), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// HardDelete removes the user for good: memberships and invites addressed to
// the user go first, then the row itself, all in one transaction.
func (s *UserService) HardDelete(ctx context.Context, user *models.User) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s WHERE user_id = $1
	`, s.db.Tables.TeamUser), user.ID); err != nil {
		return fmt.Errorf("failed to detach memberships: %w", err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s WHERE email = $1
	`, s.db.Tables.TeamInvites), user.Email); err != nil {
		return fmt.Errorf("failed to delete invites: %w", err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1
	`, s.db.Tables.Users), user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
