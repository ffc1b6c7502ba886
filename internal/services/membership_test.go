package services

import (
	"context"
	"testing"
	"time"

	"github.com/bojanv/teamo-api/internal/config"
	"github.com/bojanv/teamo-api/internal/database"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/google/uuid"
)

func setupMembershipService(t *testing.T) (*MembershipService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewMembershipService(&database.DB{Pool: mock, Tables: config.DefaultTables()}), mock
}

func TestMembershipService_Attach_Created(t *testing.T) {
	svc, mock := setupMembershipService(t)
	userID := uuid.New()
	teamID := uuid.New()

	mock.ExpectExec(`INSERT INTO team_user`).
		WithArgs(userID, teamID, []byte(`{"role":"editor"}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := svc.Attach(context.Background(), userID, teamID, map[string]any{"role": "editor"})

	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipService_Attach_Duplicate(t *testing.T) {
	svc, mock := setupMembershipService(t)
	userID := uuid.New()
	teamID := uuid.New()

	mock.ExpectExec(`INSERT INTO team_user`).
		WithArgs(userID, teamID, []byte(`{}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := svc.Attach(context.Background(), userID, teamID, nil)

	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipService_Detach_AbsentRowIsNoOp(t *testing.T) {
	svc, mock := setupMembershipService(t)
	userID := uuid.New()
	teamID := uuid.New()

	mock.ExpectExec(`DELETE FROM team_user`).
		WithArgs(userID, teamID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Detach(context.Background(), userID, teamID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipService_Contains(t *testing.T) {
	svc, mock := setupMembershipService(t)
	userID := uuid.New()
	teamID := uuid.New()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(userID, teamID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := svc.Contains(context.Background(), userID, teamID)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipService_ListForUser_OrderedByJoin(t *testing.T) {
	svc, mock := setupMembershipService(t)
	userID := uuid.New()
	first := uuid.New()
	second := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT t.id, t.name, t.owner_id.+ORDER BY tu.created_at`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "owner_id", "created_at", "updated_at"}).
			AddRow(first, "Alpha", &userID, now, now).
			AddRow(second, "Beta", &userID, now, now))

	teams, err := svc.ListForUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, first, teams[0].ID)
	assert.Equal(t, second, teams[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipService_ListMembers_DecodesMeta(t *testing.T) {
	svc, mock := setupMembershipService(t)
	userID := uuid.New()
	teamID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT tu.user_id, tu.team_id, tu.meta`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{
			"user_id", "team_id", "meta", "created_at", "updated_at",
			"id", "email", "name", "current_team_id", "u_created_at", "u_updated_at",
		}).AddRow(
			userID, teamID, []byte(`{"role":"admin"}`), now, now,
			userID, "member@example.com", "Member", &teamID, now, now,
		))

	members, err := svc.ListMembers(context.Background(), teamID)

	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "admin", members[0].Meta["role"])
	require.NotNil(t, members[0].User)
	assert.Equal(t, "member@example.com", members[0].User.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
